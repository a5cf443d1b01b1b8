package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthAPIKey AuthMode = "apikey"
	AuthBearer AuthMode = "bearer"
)

// AuthConfig guards the JSON API with a single shared secret. It is a
// deployment guard, there are no user accounts behind it.
type AuthConfig struct {
	Mode        AuthMode
	APIKey      string
	BearerToken string
	SkipPaths   []string
}

type authErr struct {
	Error string `json:"error"`
}

func AuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if cfg.Mode == AuthNone || cfg.Mode == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			switch cfg.Mode {
			case AuthAPIKey:
				if constantTimeEq(r.Header.Get("X-API-Key"), cfg.APIKey) {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w, `ApiKey realm="dayboard", header="X-API-Key"`)

			case AuthBearer:
				authz := r.Header.Get("Authorization")
				if token, ok := strings.CutPrefix(authz, "Bearer "); ok && constantTimeEq(strings.TrimSpace(token), cfg.BearerToken) {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w, `Bearer realm="dayboard"`)

			default:
				// unknown modes fail closed
				unauthorized(w, "")
			}
		})
	}
}

func constantTimeEq(a, b string) bool {
	if b == "" || len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func unauthorized(w http.ResponseWriter, challenge string) {
	w.Header().Set("Content-Type", "application/json")
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(authErr{Error: "unauthorized"})
}
