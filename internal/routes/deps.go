package routes

import (
	"net/http"

	"github.com/dukerupert/addressbook/internal/handler/api"
	"github.com/dukerupert/addressbook/internal/handler/page"
)

// PageDeps contains dependencies for the form page routes
type PageDeps struct {
	Handler *page.Handler
}

// APIDeps contains dependencies for API routes
type APIDeps struct {
	LookupHandler *api.LookupHandler
}

// OpsDeps contains dependencies for operational routes
type OpsDeps struct {
	// Metrics serves the Prometheus exposition format.
	Metrics http.Handler

	// StaticDir is served under /static/.
	StaticDir string
}
