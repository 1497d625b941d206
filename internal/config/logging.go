package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: transport", "value", s.Transport)
	if s.Transport == "sse" {
		logger.InfoContext(ctx, "Config: host", "value", s.Host)
		logger.InfoContext(ctx, "Config: port", "value", s.Port)
	}
	logAuth(ctx, logger, "auth", s.Auth)

	logger.InfoContext(ctx, "Config: engine.backend", "value", s.Engine.Backend)
	switch s.Engine.Backend {
	case BackendHTTP:
		logger.InfoContext(ctx, "Config: engine.url", "value", s.Engine.URL)
		logAuth(ctx, logger, "engine.auth", s.Engine.Auth)
	case BackendElasticsearch:
		logger.InfoContext(ctx, "Config: elasticsearch.urls", "value", strings.Join(s.Elasticsearch.URLs, ","))
		if s.Elasticsearch.CloudID != "" {
			logger.InfoContext(ctx, "Config: elasticsearch.cloud_id", "value", s.Elasticsearch.CloudID)
		}
		if s.Elasticsearch.Username != "" {
			logger.InfoContext(ctx, "Config: elasticsearch.username", "value", s.Elasticsearch.Username)
			logger.InfoContext(ctx, "Config: elasticsearch.password", "value", "****")
		}
		if s.Elasticsearch.APIKey != "" {
			logger.InfoContext(ctx, "Config: elasticsearch.api_key", "value", "****")
		}
	}
	if s.Engine.Timeout > 0 {
		logger.InfoContext(ctx, "Config: engine.timeout", "value", s.Engine.Timeout)
	}

	logger.InfoContext(ctx, "Config: default_analyzer", "value", s.DefaultAnalyzer)
	logger.InfoContext(ctx, "Config: log.level", "value", s.Log.Level)
}

func logAuth(ctx context.Context, logger *slog.Logger, prefix string, a AuthSettings) {
	logger.InfoContext(ctx, "Config: "+prefix+".type", "value", a.Type)
	switch a.Type {
	case AuthTypeBasic:
		logger.InfoContext(ctx, "Config: "+prefix+".basic.username", "value", a.Basic.Username)
		logger.InfoContext(ctx, "Config: "+prefix+".basic.password", "value", "****")
	case AuthTypeAPIKey:
		logger.InfoContext(ctx, "Config: "+prefix+".api_keys", "count", len(a.APIKeys))
	}
}

// ParseLevel maps a log.level setting to a slog level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level
func NewLogger(w io.Writer, s LogSettings) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(s.Level)}))
}

// OpenLogOutput returns the writer for log.file, or io.Discard when no file is configured.
// The returned close function is never nil.
func OpenLogOutput(s LogSettings) (io.Writer, func() error, error) {
	if s.File == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// AuthSettingsLogValue returns a slog.Value for AuthSettings with masked data
func AuthSettingsLogValue(s AuthSettings) slog.Value {
	keys := make([]string, len(s.APIKeys))
	for i := range s.APIKeys {
		keys[i] = "****"
	}
	return slog.GroupValue(
		slog.String("type", s.Type),
		slog.Any("basic", BasicAuthSettingsLogValue(s.Basic)),
		slog.Any("api_keys", keys),
	)
}

// BasicAuthSettingsLogValue returns a slog.Value for BasicAuthSettings with masked data
func BasicAuthSettingsLogValue(s BasicAuthSettings) slog.Value {
	return slog.GroupValue(
		slog.String("username", s.Username),
		slog.String("password", "****"),
	)
}

// ElasticsearchSettingsLogValue returns a slog.Value for ElasticsearchSettings with masked data
func ElasticsearchSettingsLogValue(s ElasticsearchSettings) slog.Value {
	password, apiKey := "", ""
	if s.Password != "" {
		password = "****"
	}
	if s.APIKey != "" {
		apiKey = "****"
	}
	return slog.GroupValue(
		slog.Any("urls", s.URLs),
		slog.String("username", s.Username),
		slog.String("password", password),
		slog.String("api_key", apiKey),
		slog.String("cloud_id", s.CloudID),
	)
}

// SettingsLogValue returns a slog.Value for Settings with masked data
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("transport", s.Transport),
		slog.String("host", s.Host),
		slog.Int("port", s.Port),
		slog.Any("auth", AuthSettingsLogValue(s.Auth)),
		slog.Group("engine",
			slog.String("backend", s.Engine.Backend),
			slog.String("url", s.Engine.URL),
			slog.Duration("timeout", s.Engine.Timeout),
			slog.Any("auth", AuthSettingsLogValue(s.Engine.Auth)),
		),
		slog.Any("elasticsearch", ElasticsearchSettingsLogValue(s.Elasticsearch)),
		slog.String("default_analyzer", s.DefaultAnalyzer),
	)
}
