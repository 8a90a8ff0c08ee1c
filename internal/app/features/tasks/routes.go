// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Routes mounts the task endpoints. Typically: r.Mount("/tasks", tasks.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/logtime", h.HandleLogTime)

		pr.Get("/{id}/comments", h.HandleListComments)
		pr.Post("/{id}/comments", h.HandleAddComment)
		pr.Put("/{id}/comments/{commentId}", h.HandleEditComment)
		pr.Delete("/{id}/comments/{commentId}", h.HandleDeleteComment)
		pr.Post("/{id}/comments/{commentId}/reactions", h.HandleToggleReaction)

		pr.Group(func(mr chi.Router) {
			mr.Use(sysauth.RequireRole(models.RoleAdmin, models.RoleManager))
			mr.Post("/", h.HandleCreate)
			mr.Put("/{id}/assign", h.HandleAssign)
		})
		pr.Group(func(ar chi.Router) {
			ar.Use(sysauth.RequireRole(models.RoleAdmin))
			ar.Delete("/{id}", h.HandleDelete)
		})
	})

	return r
}
