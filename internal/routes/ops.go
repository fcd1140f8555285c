package routes

import (
	"net/http"

	"github.com/dukerupert/addressbook/internal/router"
)

// RegisterOpsRoutes registers health, metrics and static files.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Static("/static/", deps.StaticDir)

	// Should be firewalled in production
	r.Handle("GET", "/metrics", deps.Metrics)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
