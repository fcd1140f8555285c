// Package page serves the server-rendered address book form.
//
// Every POST updates the caller's session state and redirects back to the
// page (post/redirect/get), so a browser refresh never resubmits a lookup.
package page

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressbook"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/form"
	"github.com/dukerupert/addressbook/internal/handler"
	"github.com/dukerupert/addressbook/internal/middleware"
	"github.com/dukerupert/addressbook/internal/session"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// MsgLookupFieldsMandatory is shown when the find form is submitted with
// a blank field, before any lookup is attempted.
const MsgLookupFieldsMandatory = "Postcode and house number fields mandatory!"

// Handler serves the form page and its actions.
type Handler struct {
	finder   address.Finder
	renderer *handler.Renderer
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewHandler creates a page handler. metrics may be nil.
func NewHandler(finder address.Finder, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		finder:   finder,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
	}
}

// BaseTemplateData returns the values every page render needs.
func BaseTemplateData(r *http.Request) map[string]any {
	return map[string]any{
		"Year":      time.Now().Year(),
		"CSRFToken": middleware.GetCSRFToken(r.Context()),
	}
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	st := s.State()

	data := BaseTemplateData(r)
	data["Fields"] = st.Fields
	data["Candidates"] = st.Candidates
	data["Selected"] = st.Fields.Get(form.SelectedAddress)
	data["Error"] = st.Error
	data["Entries"] = s.Book.List()

	h.renderer.RenderHTTP(w, r, http.StatusOK, "index", data)
}

// Find handles POST /find
//
// Previous results and errors are cleared first. Blank fields are rejected
// without calling the finder; otherwise the finder's result or error
// message replaces the candidates.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	var (
		postcode, houseNumber string
		blank                 bool
	)
	s.Update(func(st *session.State) {
		st.Fields.Apply(r.PostForm)
		st.Fields.Set(form.SelectedAddress, "")
		st.Candidates = nil
		st.Error = ""

		postcode = st.Fields.Get(form.PostCode)
		houseNumber = st.Fields.Get(form.HouseNumber)
		blank = strings.TrimSpace(postcode) == "" || strings.TrimSpace(houseNumber) == ""
		if blank {
			st.Error = MsgLookupFieldsMandatory
		}
	})
	if blank {
		redirectHome(w, r)
		return
	}

	candidates, err := h.finder.Find(r.Context(), postcode, houseNumber)

	s.Update(func(st *session.State) {
		if err != nil {
			st.Error = domain.ErrorMessage(err)
			return
		}
		st.Candidates = candidates
	})

	logger := middleware.GetLogger(r.Context(), h.logger)
	if err != nil {
		logger.Info("address lookup failed", "error", err, "code", domain.ErrorCode(err))
	} else {
		logger.Debug("address lookup succeeded", "count", len(candidates))
	}

	redirectHome(w, r)
}

// AddToBook handles POST /addressbook
//
// The selected candidate is resolved against the session's current results,
// so a stale or forged selection is rejected.
func (h *Handler) AddToBook(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	var (
		candidates []domain.Address
		selected   string
		person     addressbook.Person
	)
	s.Update(func(st *session.State) {
		st.Fields.Apply(r.PostForm)
		// An unchecked radio group is absent from the post.
		st.Fields.Set(form.SelectedAddress, r.PostForm.Get(form.SelectedAddress))
		st.Error = ""

		candidates = st.Candidates
		selected = st.Fields.Get(form.SelectedAddress)
		person = addressbook.Person{
			FirstName: st.Fields.Get(form.FirstName),
			LastName:  st.Fields.Get(form.LastName),
		}
	})

	entry, err := addressbook.NewEntry(candidates, selected, person)
	if err != nil {
		h.metrics.EntryRejected(domain.ErrorCode(err))
		s.Update(func(st *session.State) {
			st.Error = domain.ErrorMessage(err)
		})
		redirectHome(w, r)
		return
	}

	s.Book.Add(entry)
	h.metrics.EntryAdded()

	middleware.GetLogger(r.Context(), h.logger).Debug("address book entry added",
		"address_id", entry.ID,
		"entries", s.Book.Len(),
	)

	redirectHome(w, r)
}

// Clear handles POST /clear
//
// Resets every form field, the search results, and any error. The address
// book itself is kept.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Update(func(st *session.State) {
		st.Fields.Reset()
		st.Candidates = nil
		st.Error = ""
	})

	redirectHome(w, r)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s := session.FromContext(r.Context())
	if s == nil {
		handler.InternalErrorResponse(w, r, domain.Errorf(domain.EINTERNAL, "page.session", "no session in context"))
		return nil, false
	}
	return s, true
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.ErrorResponse(w, r, domain.WrapError(err, domain.ETOOLARGE, "page.form", "Request body too large"))
			return false
		}
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINVALID, "page.form", "Invalid form data"))
		return false
	}
	return true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
