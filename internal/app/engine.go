package app

import (
	"fmt"

	"github.com/sha1n/analyzer-lab/internal/auth"
	"github.com/sha1n/analyzer-lab/internal/config"
	"github.com/sha1n/analyzer-lab/internal/engine"
)

// CreateEngine creates the analysis engine selected by settings.Engine.Backend
func CreateEngine(settings *config.Settings) (engine.Engine, error) {
	switch settings.Engine.Backend {
	case config.BackendHTTP, "":
		credentials, err := auth.NewCredentials(settings.Engine.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to create engine credentials: %w", err)
		}
		return engine.NewHTTPEngine(settings.Engine.URL,
			engine.WithClientTimeout(settings.Engine.Timeout),
			engine.WithCredentials(credentials)), nil

	case config.BackendElasticsearch:
		es := settings.Elasticsearch
		e, err := engine.NewElasticEngine(engine.ElasticConfig{
			URLs:     es.URLs,
			Username: es.Username,
			Password: es.Password,
			APIKey:   es.APIKey,
			CloudID:  es.CloudID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch engine: %w", err)
		}
		return e, nil

	case config.BackendLocal:
		e, err := engine.NewLocalEngine()
		if err != nil {
			return nil, fmt.Errorf("failed to create local engine: %w", err)
		}
		return e, nil

	default:
		return nil, fmt.Errorf("unknown engine backend: %s", settings.Engine.Backend)
	}
}

// engineServerSettings returns the settings the engine server builds its engine from. The
// server never proxies another HTTP engine, so the http backend is served by the local engine.
func engineServerSettings(settings *config.Settings) *config.Settings {
	if settings.Engine.Backend == config.BackendElasticsearch {
		return settings
	}
	local := *settings
	local.Engine.Backend = config.BackendLocal
	return &local
}
