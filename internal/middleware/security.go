package middleware

import (
	"net/http"
)

// SecurityConfig holds configuration for security headers and body limits.
type SecurityConfig struct {
	// IsDevelopment disables HSTS so the API can be served over plain HTTP locally.
	IsDevelopment bool
	// MaxRequestBodySize caps recipe, ingredient and user payloads, in bytes.
	MaxRequestBodySize int64
}

// DefaultSecurityConfig returns the production defaults.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxRequestBodySize: 1 << 20,
	}
}

// jsonAPIHeaders locks a JSON-only API down in browsers. None of these
// responses is meant to be framed, embedded, sniffed or cached.
var jsonAPIHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	{"Cache-Control", "no-store"},
}

const hstsValue = "max-age=31536000; includeSubDomains"

// Security sets the JSON API response headers before the handler runs, so
// error responses written by later middleware carry them too.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range jsonAPIHeaders {
				h.Set(kv[0], kv[1])
			}
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize rejects bodies that declare more than maxBytes up front
// with 413 PAYLOAD_TOO_LARGE. Chunked bodies are capped while they are
// read; the handlers map the resulting *http.MaxBytesError to the same
// response.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
