// internal/app/features/auth/signup.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

const minPasswordLen = 8

// HandleSignup handles POST /auth/signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)
	req.Role = normalize.Role(req.Role)

	if req.Email == "" || req.Password == "" {
		respond.BadRequest(w, "email and password are required")
		return
	}
	if len(req.Password) < minPasswordLen {
		respond.BadRequest(w, "password must be at least 8 characters")
		return
	}
	if !models.ValidRole(req.Role) {
		respond.BadRequest(w, `role must be "admin", "manager", or "member"`)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		respond.Internal(w, h.Log, "signup: hash password", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Conflict(w, "a user with this email already exists")
			return
		}
		respond.Internal(w, h.Log, "signup: create user", err)
		return
	}

	token, err := sysauth.IssueToken(h.JWTSecret, user, h.TokenTTL)
	if err != nil {
		respond.Internal(w, h.Log, "signup: issue token", err)
		return
	}

	h.Audit.Signup(ctx, r, user.ID, user.Email, user.Role)
	h.Log.Info("user signed up",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
	)

	h.setTokenCookie(w, token)
	respond.JSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}
