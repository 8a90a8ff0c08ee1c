// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
)

// Routes mounts the user picker. Typically: r.Mount("/users", users.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Get("/", h.HandleList)
	})

	return r
}
