// internal/app/features/auth/routes.go
package auth

import "github.com/go-chi/chi/v5"

// Routes mounts the auth endpoints. Typically: r.Mount("/auth", auth.Routes(h)).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Get("/verify-reset-token", h.HandleVerifyResetToken)
	r.Post("/reset-password", h.HandleResetPassword)

	return r
}
