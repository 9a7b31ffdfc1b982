package middleware

import (
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the recipe API.
type CORSConfig struct {
	// AllowedOrigins lists exact origins ("https://cook.example.com") or
	// subdomain patterns ("*.example.com"). Empty denies every origin.
	AllowedOrigins []string
	// AllowedMethods are the methods a preflight may ask for.
	AllowedMethods []string
	// AllowedHeaders are the request headers a preflight may ask for.
	AllowedHeaders []string
	// ExposedHeaders are the response headers scripts may read.
	ExposedHeaders []string
	// AllowCredentials sends Access-Control-Allow-Credentials.
	AllowCredentials bool
	// MaxAge is how long, in seconds, a preflight answer may be cached.
	MaxAge int
}

// DefaultCORSConfig matches the routes the API mounts and exposes the
// request ID and rate limit headers to browser clients.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 600,
	}
}

// originMatcher answers whether an Origin header value is allowed.
type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string // ".example.com" for "*.example.com"
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSpace(o))
		if suffix, ok := strings.CutPrefix(o, "*"); ok && strings.HasPrefix(suffix, ".") {
			m.suffixes = append(m.suffixes, suffix)
			continue
		}
		m.exact[o] = struct{}{}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}

	// Patterns match on the host, whatever the scheme or port.
	_, host, ok := strings.Cut(origin, "://")
	if !ok {
		return false
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	for _, suffix := range m.suffixes {
		if label, ok := strings.CutSuffix(host, suffix); ok && label != "" {
			return true
		}
	}
	return false
}

// CORS answers preflights itself and decorates actual requests from
// allowed origins. Requests from other origins pass through untouched,
// which leaves the browser to block them.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	matcher := newOriginMatcher(cfg.AllowedOrigins)
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions &&
				r.Header.Get("Access-Control-Request-Method") != ""

			if !matcher.allows(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if !preflight {
				if exposed != "" {
					h.Set("Access-Control-Expose-Headers", exposed)
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			if !slices.Contains(cfg.AllowedMethods, r.Header.Get("Access-Control-Request-Method")) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if maxAge != "" {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
