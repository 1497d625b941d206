package mcp

import (
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/engine"
)

const serverInstructions = `Compare how text analyzers tokenize an index text and a query text.
Call list_analyzers to see which analyzers the engine offers, then analyze_text to see the
tokens each side produces and which of them match.`

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string

	// Engine answers the tools. When nil the server has no tools.
	Engine          engine.Engine
	DefaultAnalyzer string
	Timeout         time.Duration
	Logger          *slog.Logger
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	if cfg.Engine != nil {
		tools := NewToolset(cfg)
		RegisterListAnalyzersTool(s, tools)
		RegisterAnalyzeTool(s, tools)
	}

	return s
}
