package routes

import (
	"github.com/dukerupert/addressbook/internal/router"
)

// RegisterPageRoutes registers the form page and its actions.
func RegisterPageRoutes(r *router.Router, deps PageDeps) {
	r.Get("/{$}", deps.Handler.Index)
	r.Post("/find", deps.Handler.Find)
	r.Post("/addressbook", deps.Handler.AddToBook)
	r.Post("/clear", deps.Handler.Clear)
}
