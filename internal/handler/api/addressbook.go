package api

import (
	"net/http"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/handler"
	"github.com/dukerupert/addressbook/internal/session"
)

// AddressBookResponse is the body of GET /api/addressbook.
type AddressBookResponse struct {
	Entries []domain.PersonAddress `json:"entries"`
}

// ListAddressBook handles GET /api/addressbook, returning the caller's
// session book in insertion order.
func ListAddressBook(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		handler.InternalErrorResponse(w, r, domain.Errorf(domain.EINTERNAL, "api.addressbook", "no session in context"))
		return
	}

	entries := s.Book.List()
	if entries == nil {
		entries = []domain.PersonAddress{}
	}

	handler.WriteJSON(w, http.StatusOK, AddressBookResponse{Entries: entries})
}
