// Package api serves the JSON endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/handler"
	"github.com/dukerupert/addressbook/internal/middleware"
)

// Query parameter names of the lookup endpoint.
const (
	ParamPostcode     = "postcode"
	ParamStreetNumber = "streetnumber"
)

// LookupHandler serves the address lookup endpoint.
type LookupHandler struct {
	finder address.Finder
	logger *slog.Logger
}

// NewLookupHandler creates a lookup handler backed by finder.
func NewLookupHandler(finder address.Finder, logger *slog.Logger) *LookupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupHandler{
		finder: finder,
		logger: logger,
	}
}

// GetAddresses handles GET /api/getAddresses?postcode=..&streetnumber=..
//
// Response codes:
//   - 200: {"status":"ok","details":[...]}
//   - 400: {"status":"error","errormessage":<validation message>}
//   - 404: {"status":"error","errormessage":"No results found!"}
//   - 502: the configured finder could not reach its upstream
func (h *LookupHandler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := address.Request{
		Postcode:    q.Get(ParamPostcode),
		HouseNumber: q.Get(ParamStreetNumber),
	}

	details, err := h.finder.Find(r.Context(), req.Postcode, req.HouseNumber)
	if err != nil {
		status := domain.HTTPStatus(domain.ErrorCode(err))

		logger := middleware.GetLogger(r.Context(), h.logger)
		if status >= 500 {
			logger.Error("address lookup failed", "error", err, "status", status)
		} else {
			logger.Debug("address lookup rejected", "error", err, "status", status)
		}

		handler.WriteJSON(w, status, address.Failed(err))
		return
	}

	handler.WriteJSON(w, http.StatusOK, address.OK(details))
}
