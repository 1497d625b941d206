package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/config"
	"github.com/sha1n/analyzer-lab/internal/engine"
	mcputil "github.com/sha1n/analyzer-lab/internal/mcp"
	"github.com/sha1n/analyzer-lab/internal/tui"
	"github.com/spf13/pflag"
)

const serverName = "analyzer-lab"

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	CreateEngine      func(*config.Settings) (engine.Engine, error)
	CreateServer      func(*config.Settings, engine.Engine, string) (*mcp.Server, error)
	StartSSEServer    func(*mcp.Server, *config.Settings) error
	StartEngineServer func(engine.Engine, *config.Settings) error
	RunTUI            func(context.Context, tui.Options) error
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
	Stdout            io.Writer     // Optional: command output, defaults to os.Stdout
	Stderr            io.Writer     // Optional: log output, defaults to os.Stderr
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:      config.LoadSettingsWithFlags,
		ValidSettings:     config.ValidateSettings,
		CreateEngine:      CreateEngine,
		CreateServer:      CreateMCPServer,
		StartSSEServer:    StartSSEServer,
		StartEngineServer: StartEngineServer,
		RunTUI:            RunTUI,
	}
}

func (p RunParams) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p RunParams) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

// loadSettings loads and validates settings
func loadSettings(params RunParams, flags *pflag.FlagSet) (*config.Settings, error) {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// setupLogging installs the default logger. Logs always go to stderr to avoid buffering issues
// and to keep stdout free for MCP stdio and command output.
func setupLogging(params RunParams, settings *config.Settings) {
	slog.SetDefault(config.NewLogger(params.stderr(), settings.Log))
}

// RunWithDeps runs the MCP server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := loadSettings(params, flags)
	if err != nil {
		return err
	}
	setupLogging(params, settings)

	slog.Info("Starting analyzer-lab MCP server", "version", version)
	config.Log(settings)

	eng, err := params.CreateEngine(settings)
	if err != nil {
		return err
	}

	mcpServer, err := params.CreateServer(settings, eng, version)
	if err != nil {
		return err
	}

	// Start server
	if settings.Transport == "stdio" {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return mcpServer.Run(ctx, transport)
	}

	slog.Info("Starting SSE server", "host", settings.Host, "port", settings.Port)
	return params.StartSSEServer(mcpServer, settings)
}

// CreateMCPServer creates the MCP server with the analyzer tools registered
func CreateMCPServer(settings *config.Settings, eng engine.Engine, version string) (*mcp.Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("an analysis engine is required")
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:            serverName,
		Version:         version,
		Engine:          eng,
		DefaultAnalyzer: settings.DefaultAnalyzer,
		Timeout:         settings.Engine.Timeout,
		Logger:          slog.Default(),
	})

	return server, nil
}

// RunEngineServerWithDeps serves an engine over the HTTP contract with the provided dependencies
func RunEngineServerWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := loadSettings(params, flags)
	if err != nil {
		return err
	}
	setupLogging(params, settings)

	slog.Info("Starting analyzer-lab engine server", "version", version)
	config.Log(settings)

	eng, err := params.CreateEngine(engineServerSettings(settings))
	if err != nil {
		return err
	}

	slog.Info("Serving analysis engine", "engine", eng.Location(), "host", settings.Engine.Host, "port", settings.Engine.Port)
	return params.StartEngineServer(eng, settings)
}

// RunTUIWithDeps runs the terminal UI with the provided dependencies. The UI owns the
// terminal, so logs go to log.file or nowhere.
func RunTUIWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet) error {
	settings, err := loadSettings(params, flags)
	if err != nil {
		return err
	}

	out, closeLog, err := config.OpenLogOutput(settings.Log)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		_ = closeLog()
	}()

	logger := config.NewLogger(out, settings.Log)
	slog.SetDefault(logger)
	config.Log(settings)

	eng, err := params.CreateEngine(settings)
	if err != nil {
		return err
	}

	return params.RunTUI(ctx, tui.Options{
		Engine:          eng,
		DefaultAnalyzer: settings.DefaultAnalyzer,
		Timeout:         settings.Engine.Timeout,
		Logger:          logger,
	})
}

// RunTUI starts the interactive terminal UI
func RunTUI(ctx context.Context, opts tui.Options) error {
	return tui.Run(ctx, opts)
}
