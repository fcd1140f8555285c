package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/session"
)

const (
	// CSRFHeaderName is the header name for CSRF token
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormFieldName is the form field name for CSRF token
	CSRFFormFieldName = "csrf_token"

	// CSRFContextKey is the context key for the CSRF token
	CSRFContextKey contextKey = "csrf_token"
)

// CSRFConfig configures CSRF protection
type CSRFConfig struct {
	// SkipPaths are path prefixes that skip validation.
	// The JSON API is read-only and skips it.
	SkipPaths []string

	// ErrorHandler is called when CSRF validation fails
	// Default: 403 Forbidden
	ErrorHandler func(w http.ResponseWriter, r *http.Request)
}

// DefaultCSRFConfig returns the configuration used by the server.
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		SkipPaths: []string{"/api/"},
	}
}

// CSRF validates form posts against the token of the caller's session.
//
// It must run after Session. The token is put in the request context so
// templates can render it as a hidden csrf_token field. Unsafe methods must
// echo it back in that field or in the X-CSRF-Token header.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Path boundary matching: /api/ must not match /api-evil/
			for _, skipPath := range cfg.SkipPaths {
				if matchesPathPrefix(r.URL.Path, skipPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			s := session.FromContext(r.Context())
			if s == nil {
				// Fail closed: without a session there is nothing to check against
				respondInternalError(w, r, domain.Errorf(domain.EINTERNAL, "middleware.csrf", "no session in context"))
				return
			}

			ctx := context.WithValue(r.Context(), CSRFContextKey, s.CSRFToken)
			r = r.WithContext(ctx)

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			submitted, err := getSubmittedCSRFToken(r)
			if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
				respondTooLarge(w, r)
				return
			}

			if !validateCSRFToken(s.CSRFToken, submitted) {
				GetLogger(r.Context()).Warn("csrf token mismatch", "path", r.URL.Path)
				if cfg.ErrorHandler != nil {
					cfg.ErrorHandler(w, r)
				} else {
					respondForbidden(w, r)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken retrieves the CSRF token from the request context
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(CSRFContextKey).(string); ok {
		return token
	}
	return ""
}

// getSubmittedCSRFToken retrieves the submitted CSRF token from header or form.
// The error is the form parse failure, if any.
func getSubmittedCSRFToken(r *http.Request) (string, error) {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue(CSRFFormFieldName), nil
}

func validateCSRFToken(expected, submitted string) bool {
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// matchesPathPrefix checks if requestPath matches skipPath on a path boundary,
// so /api/ never matches /api-evil/.
func matchesPathPrefix(requestPath, skipPath string) bool {
	if !strings.HasPrefix(requestPath, skipPath) {
		return false
	}
	if strings.HasSuffix(skipPath, "/") || len(requestPath) == len(skipPath) {
		return true
	}
	return requestPath[len(skipPath)] == '/'
}
