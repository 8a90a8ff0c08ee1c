// internal/app/features/search/routes.go
package search

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
)

// Routes mounts quick search. Typically: r.Mount("/search", search.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Get("/", h.HandleCombined)
		pr.Get("/projects", h.HandleProjects)
		pr.Get("/tasks", h.HandleTasks)
	})

	return r
}
