// auth.go - Shared-key gate for mutating routes.
//
// There are no users and no sessions: one static secret, supplied per
// request via Authorization: Bearer or a key query parameter, gates
// upload and delete. /auth/check lets a client verify a key out-of-band.
package server

import (
	"crypto/hmac"
	"encoding/json"
	"net/http"
	"strings"
)

// AuthConfig holds the shared-secret gate configuration used by handlers.
// Unit tests can construct this directly.
type AuthConfig struct {
	Required bool
	Key      string
}

// credentialFrom extracts the client-supplied key. The Authorization
// header takes precedence over the query parameter.
func (a AuthConfig) credentialFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
		// A malformed Authorization header is still the client's choice
		// of credential; it must not fall through to the query param.
		return ""
	}
	return r.URL.Query().Get("key")
}

// keyMatches compares a candidate against the configured secret in
// constant time.
func (a AuthConfig) keyMatches(candidate string) bool {
	if candidate == "" || a.Key == "" {
		return false
	}
	return hmac.Equal([]byte(candidate), []byte(a.Key))
}

// requireKey wraps a handler with the gate. When auth is disabled every
// request passes. On rejection the protected handler never runs, so a
// failed request has no side effects.
func (a AuthConfig) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Required {
			next.ServeHTTP(w, r)
			return
		}
		if !a.keyMatches(a.credentialFrom(r)) {
			writeError(w, http.StatusUnauthorized, "invalid or missing auth key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkHandler handles POST /auth/check: verify a key without performing
// any other action. The key may arrive in the JSON body, the Authorization
// header, or the query parameter.
func (a AuthConfig) checkHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body struct {
			Key string `json:"key"`
		}
		// Body is optional; header/query fallback mirrors the gate.
		_ = json.NewDecoder(r.Body).Decode(&body)

		candidate := body.Key
		if candidate == "" {
			candidate = a.credentialFrom(r)
		}

		if a.Required && !a.keyMatches(candidate) {
			writeError(w, http.StatusUnauthorized, "invalid auth key")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
}
