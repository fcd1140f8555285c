package middleware

import (
	"net/http"

	"github.com/dukerupert/addressbook/internal/cookie"
	"github.com/dukerupert/addressbook/internal/session"
)

// SessionConfig holds configuration for session middleware.
type SessionConfig struct {
	Registry *session.Registry
	Cookies  *cookie.Config
}

// Session attaches the caller's session to the request context.
//
// An unknown or expired cookie gets a fresh session and a new cookie, so
// every handler behind this middleware can rely on session.FromContext.
// The cookie is refreshed on each request to slide its expiry.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, created := cfg.Registry.GetOrCreate(cfg.Cookies.Session(r))
			if created {
				GetLogger(r.Context()).Debug("session created", "session_id", s.ID)
			}

			cfg.Cookies.SetSession(w, s.ID)

			ctx := session.NewContext(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
