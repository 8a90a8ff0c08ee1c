// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Routes mounts the audit viewer. Typically: r.Mount("/audit", auditlog.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Use(sysauth.RequireRole(models.RoleAdmin))
		pr.Get("/", h.HandleList)
		pr.Get("/failed-logins", h.HandleFailedLogins)
	})

	return r
}
