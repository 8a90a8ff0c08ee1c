// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Routes mounts the project endpoints. Typically:
// r.Mount("/projects", projects.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Patch("/{id}", h.HandleUpdate)

		pr.Group(func(mr chi.Router) {
			mr.Use(sysauth.RequireRole(models.RoleAdmin, models.RoleManager))
			mr.Post("/", h.HandleCreate)
		})
		pr.Group(func(ar chi.Router) {
			ar.Use(sysauth.RequireRole(models.RoleAdmin))
			ar.Delete("/{id}", h.HandleDelete)
		})
	})

	return r
}
