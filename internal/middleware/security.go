package middleware

import (
	"net/http"
	"strconv"
)

// SecurityHeadersConfig configures the headers set on every response.
// An empty string leaves the corresponding header unset.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string

	// ContentTypeNosniff sets X-Content-Type-Options: nosniff
	ContentTypeNosniff bool

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	// Zero disables the header. It is only sent on requests that arrived
	// over TLS, directly or via a proxy setting X-Forwarded-Proto.
	HSTSMaxAge int

	// NoStoreAPI marks /api/ responses as uncacheable. Lookup results
	// and address book listings are per-session.
	NoStoreAPI bool
}

// DefaultSecurityHeadersConfig returns the configuration for the form page:
// everything is served from this origin and the page never renders in a frame.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
		FrameOptions:          "DENY",
		ReferrerPolicy:        "same-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), payment=()",
		ContentTypeNosniff:    true,
		NoStoreAPI:            true,
	}
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	static := make(http.Header)
	setIf := func(key, value string) {
		if value != "" {
			static.Set(key, value)
		}
	}
	setIf("Content-Security-Policy", config.ContentSecurityPolicy)
	setIf("X-Frame-Options", config.FrameOptions)
	setIf("Referrer-Policy", config.ReferrerPolicy)
	setIf("Permissions-Policy", config.PermissionsPolicy)
	if config.ContentTypeNosniff {
		static.Set("X-Content-Type-Options", "nosniff")
	}

	var hsts string
	if config.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(config.HSTSMaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for key, values := range static {
				h[key] = values
			}

			if hsts != "" && isTLS(r) {
				h.Set("Strict-Transport-Security", hsts)
			}

			if config.NoStoreAPI && matchesPathPrefix(r.URL.Path, "/api/") {
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isTLS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
