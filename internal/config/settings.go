package config

import (
	"errors"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// Engine backend constants
const (
	BackendHTTP          = "http"
	BackendElasticsearch = "elasticsearch"
	BackendLocal         = "local"
)

// DefaultEngineURL is the base address of the remote analysis engine.
const DefaultEngineURL = "http://localhost:8181/api"

const envPrefix = "ANALYZER_LAB"

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// EngineSettings configuration for reaching (or serving) the analysis engine
type EngineSettings struct {
	Backend string        `mapstructure:"backend"` // BackendHTTP, BackendElasticsearch, or BackendLocal
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves the transport default in charge
	Auth    AuthSettings  `mapstructure:"auth"`    // credentials sent to a remote engine
	Host    string        `mapstructure:"host"`    // listen host for the engine server
	Port    int           `mapstructure:"port"`    // listen port for the engine server
}

// ElasticsearchSettings configuration for the Elasticsearch backend
type ElasticsearchSettings struct {
	URLs     []string `mapstructure:"urls"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	APIKey   string   `mapstructure:"api_key"`
	CloudID  string   `mapstructure:"cloud_id"`
}

// LogSettings configuration for logging
type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // used by the terminal UI, which owns stderr
}

// Settings application settings
type Settings struct {
	Transport       string                `mapstructure:"transport"`
	Host            string                `mapstructure:"host"`
	Port            int                   `mapstructure:"port"`
	Auth            AuthSettings          `mapstructure:"auth"`
	Engine          EngineSettings        `mapstructure:"engine"`
	Elasticsearch   ElasticsearchSettings `mapstructure:"elasticsearch"`
	DefaultAnalyzer string                `mapstructure:"default_analyzer"`
	Log             LogSettings           `mapstructure:"log"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	v.SetDefault("engine.backend", BackendHTTP)
	v.SetDefault("engine.url", DefaultEngineURL)
	v.SetDefault("engine.timeout", time.Duration(0))
	v.SetDefault("engine.auth.type", AuthTypeNone)
	v.SetDefault("engine.host", "0.0.0.0")
	v.SetDefault("engine.port", 8181)

	v.SetDefault("elasticsearch.urls", []string{"http://localhost:9200"})
	v.SetDefault("default_analyzer", "lucene.standard")
	v.SetDefault("log.level", "info")

	// Environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	for _, key := range []string{
		"auth.type", "auth.basic.username", "auth.basic.password", "auth.api_keys",
		"engine.backend", "engine.url", "engine.timeout", "engine.host", "engine.port",
		"engine.auth.type", "engine.auth.basic.username", "engine.auth.basic.password", "engine.auth.api_keys",
		"elasticsearch.urls", "elasticsearch.username", "elasticsearch.password",
		"elasticsearch.api_key", "elasticsearch.cloud_id",
		"default_analyzer", "log.level", "log.file",
	} {
		_ = v.BindEnv(key, envName(key))
	}

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		for key, flag := range flagBindings {
			if f := flags.Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Auth.APIKeys = splitListEnv(settings.Auth.APIKeys, envName("auth.api_keys"))
	settings.Engine.Auth.APIKeys = splitListEnv(settings.Engine.Auth.APIKeys, envName("engine.auth.api_keys"))
	settings.Elasticsearch.URLs = splitListEnv(settings.Elasticsearch.URLs, envName("elasticsearch.urls"))

	settings.Engine.URL = strings.TrimRight(strings.TrimSpace(settings.Engine.URL), "/")
	settings.Log.Level = strings.ToLower(strings.TrimSpace(settings.Log.Level))

	return &settings, nil
}

// flagBindings maps setting keys to CLI flag names
var flagBindings = map[string]string{
	"transport":                  "transport",
	"host":                       "host",
	"port":                       "port",
	"auth.type":                  "auth-type",
	"auth.basic.username":        "auth-basic-username",
	"auth.basic.password":        "auth-basic-password",
	"auth.api_keys":              "auth-api-keys",
	"engine.backend":             "engine",
	"engine.url":                 "engine-url",
	"engine.timeout":             "engine-timeout",
	"engine.host":                "engine-host",
	"engine.port":                "engine-port",
	"engine.auth.type":           "engine-auth-type",
	"engine.auth.basic.username": "engine-auth-basic-username",
	"engine.auth.basic.password": "engine-auth-basic-password",
	"engine.auth.api_keys":       "engine-auth-api-keys",
	"elasticsearch.urls":         "es-urls",
	"elasticsearch.username":     "es-username",
	"elasticsearch.password":     "es-password",
	"elasticsearch.api_key":      "es-api-key",
	"elasticsearch.cloud_id":     "es-cloud-id",
	"default_analyzer":           "default-analyzer",
	"log.level":                  "log-level",
	"log.file":                   "log-file",
}

// FlagNames returns the CLI flag names bound to settings, sorted
func FlagNames() []string {
	names := make([]string, 0, len(flagBindings))
	for _, name := range flagBindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// envName returns the environment variable bound to a setting key
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// splitListEnv handles lists provided via env var as a comma-separated string,
// trims each entry and drops empty ones
func splitListEnv(values []string, env string) []string {
	if raw := os.Getenv(env); raw != "" {
		if len(values) == 0 || (len(values) == 1 && strings.Contains(values[0], ",")) {
			values = strings.Split(raw, ",")
		}
	}

	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return filterEmptyStrings(values)
}

// filterEmptyStrings removes empty strings from a slice
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	if err := validateAuth("auth", s.Auth); err != nil {
		return err
	}

	if err := validateEngineSettings(&s.Engine); err != nil {
		return err
	}

	if s.Engine.Backend == BackendElasticsearch {
		if err := validateElasticsearchSettings(&s.Elasticsearch); err != nil {
			return err
		}
	}

	switch s.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return errors.New("log-level must be one of debug, info, warn, error, got: " + s.Log.Level)
	}

	return nil
}

// validateAuth validates an auth block. prefix names the flag family in messages.
func validateAuth(prefix string, a AuthSettings) error {
	hasBasicCreds := a.Basic.Username != "" || a.Basic.Password != ""
	hasAPIKeys := len(a.APIKeys) > 0

	switch a.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New(prefix + "-type 'none' is incompatible with " + prefix + " credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New(prefix + "-type 'basic' is mutually exclusive with " + prefix + "-api-keys")
		}
		if a.Basic.Username == "" || a.Basic.Password == "" {
			return errors.New(prefix + "-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New(prefix + "-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New(prefix + "-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown " + prefix + "-type: " + a.Type)
	}
	return nil
}

// validateEngineSettings validates the engine configuration
func validateEngineSettings(e *EngineSettings) error {
	switch e.Backend {
	case BackendHTTP:
		if e.URL == "" {
			return errors.New("engine-url cannot be empty")
		}
		u, err := url.Parse(e.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("engine-url must be an absolute http(s) URL, got: " + e.URL)
		}
	case BackendElasticsearch, BackendLocal:
		// valid
	default:
		return errors.New("engine must be 'http', 'elasticsearch' or 'local', got: " + e.Backend)
	}

	if e.Timeout < 0 {
		return errors.New("engine-timeout cannot be negative")
	}

	if e.Port < 0 || e.Port > 65535 {
		return errors.New("engine-port must be between 0 and 65535")
	}

	return validateAuth("engine-auth", e.Auth)
}

// validateElasticsearchSettings validates the Elasticsearch backend configuration
func validateElasticsearchSettings(es *ElasticsearchSettings) error {
	if len(es.URLs) == 0 && es.CloudID == "" {
		return errors.New("engine 'elasticsearch' requires es-urls or es-cloud-id")
	}

	hasBasicCreds := es.Username != "" || es.Password != ""
	if es.APIKey != "" && hasBasicCreds {
		return errors.New("es-api-key is mutually exclusive with es-username/es-password")
	}
	if hasBasicCreds && (es.Username == "" || es.Password == "") {
		return errors.New("es basic auth requires both es-username and es-password")
	}
	return nil
}
