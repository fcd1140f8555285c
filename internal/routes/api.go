package routes

import (
	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/handler/api"
	"github.com/dukerupert/addressbook/internal/router"
)

// RegisterLookupRoutes registers the stateless address lookup. It is called
// by scripts as well as the page, so r must not carry the session or CSRF
// middleware.
func RegisterLookupRoutes(r *router.Router, deps APIDeps) {
	r.Get(address.LookupPath, deps.LookupHandler.GetAddresses)
}

// RegisterAPIRoutes registers the JSON endpoints that read the caller's
// session, so r must carry the session middleware.
func RegisterAPIRoutes(r *router.Router) {
	r.Get("/api/addressbook", api.ListAddressBook)
}
