package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/auth"
	"github.com/sha1n/analyzer-lab/internal/config"
	"github.com/sha1n/analyzer-lab/internal/engine"
)

// StartSSEServer starts the SSE server with authentication
func StartSSEServer(s *mcp.Server, settings *config.Settings) error {
	srv, err := NewSSEServer(s, settings)
	if err != nil {
		return err
	}

	slog.Info("Server listening (HTTP)", "addr", srv.Addr, "auth_type", settings.Auth.Type)
	return srv.ListenAndServe()
}

// NewSSEServer creates a new SSE server with authentication middleware
func NewSSEServer(s *mcp.Server, settings *config.Settings) (*http.Server, error) {
	// Factory function returns the server instance for each request
	sseHandler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return s
	}, nil)

	mux := newMux()
	mux.Handle("/sse", sseHandler)

	return newServer(mux, settings.Auth, settings.Host, settings.Port)
}

// StartEngineServer serves an analysis engine over HTTP
func StartEngineServer(e engine.Engine, settings *config.Settings) error {
	srv, err := NewEngineServer(e, settings)
	if err != nil {
		return err
	}

	slog.Info("Engine server listening (HTTP)", "addr", srv.Addr, "auth_type", settings.Auth.Type)
	return srv.ListenAndServe()
}

// NewEngineServer creates the engine HTTP server. Inbound requests are guarded by the same
// auth settings as the SSE server and it listens on engine.host:engine.port.
func NewEngineServer(e engine.Engine, settings *config.Settings) (*http.Server, error) {
	mux := newMux()
	mux.Handle(engine.APIPrefix+"/", engine.NewHandler(e, slog.Default()))

	return newServer(mux, settings.Auth, settings.Engine.Host, settings.Engine.Port)
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func newServer(mux *http.ServeMux, authSettings config.AuthSettings, host string, port int) (*http.Server, error) {
	authMiddleware, err := auth.NewMiddleware(authSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth middleware: %w", err)
	}

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: authMiddleware(mux),
	}, nil
}
