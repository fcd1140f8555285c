// Package cookie provides helpers for the session cookie that ties a browser
// to its in-memory page state and address book.
package cookie

import (
	"net/http"
	"time"
)

// DefaultSessionName is used when no cookie name is configured.
const DefaultSessionName = "addressbook_session"

// Config holds cookie configuration.
type Config struct {
	// Name of the session cookie.
	Name string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool

	// MaxAge is how long the browser keeps the cookie.
	MaxAge time.Duration
}

// NewConfig creates a new cookie configuration.
func NewConfig(name string, secure bool, maxAge time.Duration) *Config {
	if name == "" {
		name = DefaultSessionName
	}
	return &Config{
		Name:   name,
		Secure: secure,
		MaxAge: maxAge,
	}
}

// SetSession writes the session cookie.
//
// The cookie is HttpOnly, scoped to "/", and uses SameSite=Lax so it is
// sent with top-level form posts.
func (c *Config) SetSession(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session returns the session cookie value, or "" when absent.
func (c *Config) Session(r *http.Request) string {
	return Get(r, c.Name)
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
