package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/middleware"
)

// ErrorResponse logs err and writes it to the client, as JSON when the
// client asked for JSON and as plain text otherwise.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := domain.HTTPStatus(code)
	message := domain.ErrorMessage(err)

	logError(r, err, status)

	if acceptsJSON(r) {
		WriteJSON(w, status, map[string]any{
			"error": map[string]string{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	http.Error(w, message, status)
}

// InternalErrorResponse hides err from the client and logs it.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func logError(r *http.Request, err error, status int) {
	logger := middleware.GetLogger(r.Context())

	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"op", domain.ErrorOp(err),
		"status", status,
	}

	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}
