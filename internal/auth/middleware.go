// Package auth guards the SSE and engine servers and attaches credentials to engine requests.
package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sha1n/analyzer-lab/internal/config"
)

// APIKeyHeader carries the API key for apikey auth, inbound and outbound.
const APIKeyHeader = "X-API-Key"

const basicChallenge = `Basic realm="analyzer-lab"`

// verifier reports whether a request carries valid credentials.
type verifier func(r *http.Request) bool

// guard serves next only for verified or excluded requests.
type guard struct {
	next      http.Handler
	verify    verifier
	challenge string
}

func (g *guard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if isExcluded(r) || g.verify(r) {
		g.next.ServeHTTP(w, r)
		return
	}

	slog.Debug("Rejected unauthenticated request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
	if g.challenge != "" {
		w.Header().Set("WWW-Authenticate", g.challenge)
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// isExcluded lets health checks and CORS preflights through. Preflights never carry credentials.
func isExcluded(r *http.Request) bool {
	return r.URL.Path == "/health" || r.Method == http.MethodOptions
}

// checkSettings validates auth settings for both inbound and outbound use.
func checkSettings(settings config.AuthSettings) error {
	switch settings.Type {
	case config.AuthTypeNone, "":
		return nil
	case config.AuthTypeBasic:
		if settings.Basic.Username == "" || settings.Basic.Password == "" {
			return fmt.Errorf("basic auth requires non-empty username and password")
		}
		return nil
	case config.AuthTypeAPIKey:
		if len(settings.APIKeys) == 0 {
			return fmt.Errorf("apikey auth requires at least one API key")
		}
		return nil
	default:
		return fmt.Errorf("unknown auth type: %s", settings.Type)
	}
}

// NewMiddleware returns the handler wrapper enforcing settings on inbound requests.
func NewMiddleware(settings config.AuthSettings) (func(http.Handler) http.Handler, error) {
	if err := checkSettings(settings); err != nil {
		return nil, err
	}

	var verify verifier
	var challenge string
	switch settings.Type {
	case config.AuthTypeBasic:
		verify, challenge = basicVerifier(settings.Basic), basicChallenge
	case config.AuthTypeAPIKey:
		verify = apiKeyVerifier(settings.APIKeys)
	default:
		return func(next http.Handler) http.Handler { return next }, nil
	}

	return func(next http.Handler) http.Handler {
		return &guard{next: next, verify: verify, challenge: challenge}
	}, nil
}

func basicVerifier(want config.BasicAuthSettings) verifier {
	return func(r *http.Request) bool {
		user, pass, ok := r.BasicAuth()
		if !ok {
			return false
		}
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(want.Username))
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(want.Password))
		return userOK&passOK == 1
	}
}

func apiKeyVerifier(keys []string) verifier {
	return func(r *http.Request) bool {
		key := r.Header.Get(APIKeyHeader)
		return key != "" && anyKeyMatches(key, keys)
	}
}

// anyKeyMatches compares key with every configured key, so timing does not reveal which matched.
func anyKeyMatches(key string, keys []string) bool {
	matched := 0
	for _, k := range keys {
		matched |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return matched == 1
}
