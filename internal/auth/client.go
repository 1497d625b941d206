package auth

import (
	"net/http"

	"github.com/sha1n/analyzer-lab/internal/config"
)

// Credentials decorates outgoing requests to a protected engine.
type Credentials func(*http.Request)

// NewCredentials returns the request decorator for the given auth settings. With apikey auth
// the first key is sent.
func NewCredentials(settings config.AuthSettings) (Credentials, error) {
	if err := checkSettings(settings); err != nil {
		return nil, err
	}

	switch settings.Type {
	case config.AuthTypeBasic:
		user, pass := settings.Basic.Username, settings.Basic.Password
		return func(r *http.Request) { r.SetBasicAuth(user, pass) }, nil
	case config.AuthTypeAPIKey:
		key := settings.APIKeys[0]
		return func(r *http.Request) { r.Header.Set(APIKeyHeader, key) }, nil
	default:
		return func(*http.Request) {}, nil
	}
}

// Apply decorates r. A nil Credentials leaves r unchanged.
func (c Credentials) Apply(r *http.Request) {
	if c != nil {
		c(r)
	}
}
