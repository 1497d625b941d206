// Package testkit starts the lab's servers on free local ports for end-to-end tests.
package testkit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/app"
	"github.com/sha1n/analyzer-lab/internal/config"
	"github.com/sha1n/analyzer-lab/internal/engine"
	"github.com/spf13/pflag"
)

// Property names published by the services
const (
	PropEngineURL = "engine.url"
	PropSSEURL    = "mcp.sse.url"
)

// Service is a test dependency that can be started and stopped. Start sees the
// properties published by the services started before it.
type Service interface {
	Start(ctx TestEnvContext) (map[string]any, error)
	Stop() error
	GetName() string
}

// TestEnvContext provides access to properties collected during environment startup
type TestEnvContext interface {
	GetProperties() map[string]any
	GetProperty(name string) (any, bool)
}

// TestEnv manages the lifecycle of test services
type TestEnv interface {
	Start() (map[string]any, error)
	Stop() error
	GetContext() TestEnvContext
}

type testEnvContextImpl struct {
	properties map[string]any
}

func (c *testEnvContextImpl) GetProperties() map[string]any {
	return c.properties
}

func (c *testEnvContextImpl) GetProperty(name string) (any, bool) {
	val, ok := c.properties[name]
	return val, ok
}

type testEnvImpl struct {
	services []Service
	context  *testEnvContextImpl
}

// NewTestEnv creates a new test environment with the given services, started in order
func NewTestEnv(services ...Service) TestEnv {
	return &testEnvImpl{
		services: services,
		context:  &testEnvContextImpl{properties: make(map[string]any)},
	}
}

func (e *testEnvImpl) Start() (map[string]any, error) {
	for _, s := range e.services {
		props, err := s.Start(e.context)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.GetName(), err)
		}
		for k, v := range props {
			e.context.properties[k] = v
		}
	}
	return e.context.properties, nil
}

func (e *testEnvImpl) Stop() error {
	var lastErr error
	// Stop in reverse order
	for i := len(e.services) - 1; i >= 0; i-- {
		if err := e.services[i].Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (e *testEnvImpl) GetContext() TestEnvContext {
	return e.context
}

// GetFreePort returns a free port from the kernel
func GetFreePort() (int, error) {
	return getFreePortWithAddr("localhost:0")
}

// MustGetFreePort returns a free port or fails the test
func MustGetFreePort(t testing.TB) int {
	t.Helper()
	port, err := GetFreePort()
	if err != nil {
		t.Fatalf("Failed to get free port: %v", err)
	}
	return port
}

func getFreePortWithAddr(addrStr string) (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", addrStr)
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForHealth polls baseURL/health until it answers 200 or timeout passes
func WaitForHealth(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s not healthy after %s", baseURL, timeout)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// FlagOptions configures NewTestFlags
type FlagOptions struct {
	Port       int    // MCP SSE port, uses a free port if 0
	EnginePort int    // Engine server port, uses a free port if 0
	Transport  string // Defaults to "sse"
	AuthType   string // Defaults to "none"
	Host       string // Defaults to "localhost"
	Engine     string // Defaults to "local"
	EngineURL  string // Only set when not empty
}

// NewTestFlags creates a configured pflag.FlagSet for testing
func NewTestFlags(t testing.TB, opts *FlagOptions) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterFlags(flags)

	o := FlagOptions{Transport: "sse", AuthType: config.AuthTypeNone, Host: "localhost", Engine: config.BackendLocal}
	if opts != nil {
		if opts.Port != 0 {
			o.Port = opts.Port
		}
		if opts.EnginePort != 0 {
			o.EnginePort = opts.EnginePort
		}
		if opts.Transport != "" {
			o.Transport = opts.Transport
		}
		if opts.AuthType != "" {
			o.AuthType = opts.AuthType
		}
		if opts.Host != "" {
			o.Host = opts.Host
		}
		if opts.Engine != "" {
			o.Engine = opts.Engine
		}
		o.EngineURL = opts.EngineURL
	}

	if o.Port == 0 {
		o.Port = MustGetFreePort(t)
	}
	if o.EnginePort == 0 {
		o.EnginePort = MustGetFreePort(t)
	}

	_ = flags.Set("port", fmt.Sprintf("%d", o.Port))
	_ = flags.Set("engine-port", fmt.Sprintf("%d", o.EnginePort))
	_ = flags.Set("transport", o.Transport)
	_ = flags.Set("auth-type", o.AuthType)
	_ = flags.Set("host", o.Host)
	_ = flags.Set("engine-host", o.Host)
	_ = flags.Set("engine", o.Engine)
	if o.EngineURL != "" {
		_ = flags.Set("engine-url", o.EngineURL)
	}

	return flags
}

// serverService runs one of the app's HTTP servers in the background and shuts it down on Stop
type serverService struct {
	name    string
	flags   *pflag.FlagSet
	run     func(params app.RunParams, flags *pflag.FlagSet) error
	publish func(settings *config.Settings) map[string]any

	mu     sync.Mutex
	srv    *http.Server
	errc   chan error
	loaded *config.Settings
}

func (s *serverService) GetName() string { return s.name }

func (s *serverService) listen(srv *http.Server) error {
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *serverService) params() app.RunParams {
	params := app.DefaultRunParams()
	params.LoadSettings = func(flags *pflag.FlagSet) (*config.Settings, error) {
		settings, err := config.LoadSettingsWithFlags(flags)
		s.mu.Lock()
		s.loaded = settings
		s.mu.Unlock()
		return settings, err
	}
	params.StartSSEServer = func(server *mcp.Server, settings *config.Settings) error {
		srv, err := app.NewSSEServer(server, settings)
		if err != nil {
			return err
		}
		return s.listen(srv)
	}
	params.StartEngineServer = func(e engine.Engine, settings *config.Settings) error {
		srv, err := app.NewEngineServer(e, settings)
		if err != nil {
			return err
		}
		return s.listen(srv)
	}
	return params
}

func (s *serverService) Start(TestEnvContext) (map[string]any, error) {
	s.errc = make(chan error, 1)
	go func() {
		s.errc <- s.run(s.params(), s.flags)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case err := <-s.errc:
			return nil, fmt.Errorf("server exited: %v", err)
		default:
		}

		s.mu.Lock()
		srv, settings := s.srv, s.loaded
		s.mu.Unlock()
		if srv != nil {
			if err := WaitForHealth("http://"+srv.Addr, time.Until(deadline)); err != nil {
				return nil, err
			}
			return s.publish(settings), nil
		}
		if time.Now().After(deadline) {
			return nil, errors.New("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (s *serverService) Stop() error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// NewEngineService serves the engine selected by flags over HTTP and publishes PropEngineURL
func NewEngineService(flags *pflag.FlagSet) Service {
	return &serverService{
		name:  "engine",
		flags: flags,
		run: func(params app.RunParams, flags *pflag.FlagSet) error {
			return app.RunEngineServerWithDeps(context.Background(), params, flags, "test")
		},
		publish: func(settings *config.Settings) map[string]any {
			return map[string]any{
				PropEngineURL: fmt.Sprintf("http://%s:%d%s", settings.Engine.Host, settings.Engine.Port, engine.APIPrefix),
			}
		},
	}
}

// NewMCPService serves the MCP tools over SSE and publishes PropSSEURL. When an engine
// service ran before it, the MCP server uses it as its HTTP engine.
func NewMCPService(flags *pflag.FlagSet) Service {
	svc := &serverService{
		name:  "mcp",
		flags: flags,
		publish: func(settings *config.Settings) map[string]any {
			return map[string]any{
				PropSSEURL: fmt.Sprintf("http://%s:%d/sse", settings.Host, settings.Port),
			}
		},
	}
	svc.run = func(params app.RunParams, flags *pflag.FlagSet) error {
		return app.RunWithDeps(context.Background(), params, flags, "test")
	}
	return &mcpService{serverService: svc}
}

type mcpService struct {
	*serverService
}

func (s *mcpService) Start(ctx TestEnvContext) (map[string]any, error) {
	if url, ok := ctx.GetProperty(PropEngineURL); ok {
		_ = s.flags.Set("engine", config.BackendHTTP)
		_ = s.flags.Set("engine-url", fmt.Sprint(url))
	}
	return s.serverService.Start(ctx)
}
