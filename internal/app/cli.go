package app

import "github.com/spf13/pflag"

// RegisterFlags registers all settings flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	RegisterServerFlags(flags)
	RegisterEngineFlags(flags)

	flags.String("default-analyzer", "", "Analyzer both sides start with (default lucene.standard)")
	flags.String("log-level", "", "Log level: debug, info, warn, or error")
	flags.String("log-file", "", "Log file for the terminal UI (logs are discarded when empty)")
}

// RegisterServerFlags registers the MCP transport flags and the inbound auth flags
func RegisterServerFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")
}

// RegisterEngineFlags registers the flags selecting and reaching the analysis engine
func RegisterEngineFlags(flags *pflag.FlagSet) {
	flags.StringP("engine", "e", "", "Analysis engine: http, elasticsearch, or local")
	flags.String("engine-url", "", "Base URL of the HTTP analysis engine")
	flags.Duration("engine-timeout", 0, "Timeout for a single analysis (0 leaves the transport default)")
	flags.String("engine-host", "", "Listen host for the engine server")
	flags.Int("engine-port", 0, "Listen port for the engine server")
	flags.String("engine-auth-type", "", "Credentials sent to the HTTP engine: none, basic, or apikey")
	flags.String("engine-auth-basic-username", "", "Basic auth username for the HTTP engine")
	flags.String("engine-auth-basic-password", "", "Basic auth password for the HTTP engine")
	flags.StringSlice("engine-auth-api-keys", nil, "API key for the HTTP engine (the first key is sent)")

	flags.StringSlice("es-urls", nil, "Elasticsearch URLs (comma-separated)")
	flags.String("es-username", "", "Elasticsearch username")
	flags.String("es-password", "", "Elasticsearch password")
	flags.String("es-api-key", "", "Elasticsearch API key")
	flags.String("es-cloud-id", "", "Elastic Cloud deployment ID")
}
