package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog(t *testing.T) {
	// Just verify it doesn't panic
	s := &Settings{
		Transport: "sse",
		Host:      "localhost",
		Port:      8080,
		Auth: AuthSettings{
			Type: AuthTypeNone,
		},
	}
	Log(s) // Should not panic
}

func TestLogWithLogger_StdioTransport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "stdio",
		Host:      "localhost",
		Port:      8080,
		Auth: AuthSettings{
			Type: AuthTypeNone,
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "transport") {
		t.Error("Expected 'transport' in log output")
	}
	// stdio transport should not log host/port
	if strings.Contains(output, "Config: host") {
		t.Error("Expected no 'host' in log output for stdio transport")
	}
}

func TestLogWithLogger_SSETransport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "sse",
		Host:      "localhost",
		Port:      8080,
		Auth: AuthSettings{
			Type: AuthTypeNone,
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "transport") {
		t.Error("Expected 'transport' in log output")
	}
	if !strings.Contains(output, "Config: host") {
		t.Error("Expected 'host' in log output for SSE transport")
	}
	if !strings.Contains(output, "Config: port") {
		t.Error("Expected 'port' in log output for SSE transport")
	}
}

func TestLogWithLogger_BasicAuth(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "stdio",
		Auth: AuthSettings{
			Type: AuthTypeBasic,
			Basic: BasicAuthSettings{
				Username: "admin",
				Password: "secret",
			},
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "admin") {
		t.Error("Expected username in log output")
	}
	if !strings.Contains(output, "****") {
		t.Error("Expected masked password in log output")
	}
	if strings.Contains(output, "secret") {
		t.Error("Password should be masked, not shown in plain text")
	}
}

func TestLogWithLogger_APIKeyAuth(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "stdio",
		Auth: AuthSettings{
			Type:    AuthTypeAPIKey,
			APIKeys: []string{"key1", "key2", "key3"},
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "count=3") {
		t.Errorf("Expected 'count=3' in log output, got: %s", output)
	}
}

func TestSettingsLogValue(t *testing.T) {
	s := Settings{
		Transport: "sse",
		Host:      "localhost",
		Port:      8080,
		Auth: AuthSettings{
			Type:    AuthTypeAPIKey,
			APIKeys: []string{"key1"},
		},
	}

	val := SettingsLogValue(s)
	if val.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind, got %v", val.Kind())
	}
}

func TestAuthSettingsLogValue(t *testing.T) {
	s := AuthSettings{
		Type:    AuthTypeAPIKey,
		APIKeys: []string{"key1", "key2"},
		Basic: BasicAuthSettings{
			Username: "user",
			Password: "pass",
		},
	}

	val := AuthSettingsLogValue(s)
	if val.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind, got %v", val.Kind())
	}
}

func TestBasicAuthSettingsLogValue(t *testing.T) {
	s := BasicAuthSettings{
		Username: "admin",
		Password: "secret",
	}

	val := BasicAuthSettingsLogValue(s)
	if val.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind, got %v", val.Kind())
	}
}

func TestLogWithLogger_EngineHTTPAuthMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "stdio",
		Engine: EngineSettings{
			Backend: BackendHTTP,
			URL:     DefaultEngineURL,
			Auth: AuthSettings{
				Type:  AuthTypeBasic,
				Basic: BasicAuthSettings{Username: "engine-user", Password: "engine-secret"},
			},
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, DefaultEngineURL) {
		t.Error("Expected engine URL in log output")
	}
	if !strings.Contains(output, "engine-user") {
		t.Error("Expected engine username in log output")
	}
	if strings.Contains(output, "engine-secret") {
		t.Error("Engine password should be masked")
	}
}

func TestLogWithLogger_ElasticsearchMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := &Settings{
		Transport: "stdio",
		Engine:    EngineSettings{Backend: BackendElasticsearch},
		Elasticsearch: ElasticsearchSettings{
			URLs:   []string{"http://es:9200"},
			APIKey: "top-secret-key",
		},
	}

	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "http://es:9200") {
		t.Error("Expected elasticsearch URLs in log output")
	}
	if strings.Contains(output, "top-secret-key") {
		t.Error("Elasticsearch API key should be masked")
	}
	if strings.Contains(output, "engine.url") {
		t.Error("Expected no engine.url for the elasticsearch backend")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogSettings{Level: "warn"})

	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("Expected info record to be filtered")
	}
	if !strings.Contains(output, "shown") {
		t.Error("Expected warn record to be written")
	}
}

func TestOpenLogOutput(t *testing.T) {
	w, closeFn, err := OpenLogOutput(LogSettings{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w != io.Discard {
		t.Error("Expected io.Discard without a log file")
	}
	_ = closeFn()

	path := filepath.Join(t.TempDir(), "tui.log")
	w, closeFn, err = OpenLogOutput(LogSettings{File: path})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	NewLogger(w, LogSettings{}).Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Expected record in log file, got %q", data)
	}
}

func TestElasticsearchSettingsLogValue(t *testing.T) {
	val := ElasticsearchSettingsLogValue(ElasticsearchSettings{Password: "p", APIKey: "k"})
	if val.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind, got %v", val.Kind())
	}
	for _, attr := range val.Group() {
		if attr.Key == "password" || attr.Key == "api_key" {
			if attr.Value.String() != "****" {
				t.Errorf("Expected %s to be masked, got %q", attr.Key, attr.Value.String())
			}
		}
	}
}
