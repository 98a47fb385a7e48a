// cors.go - Permissive CORS and baseline response headers.
package server

import "net/http"

// corsMiddleware allows any origin to call the API. The service is meant
// to be embedded from arbitrary pages, so the policy is deliberately `*`.
// It also sets nosniff so stored files are never MIME-sniffed into
// something executable.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
