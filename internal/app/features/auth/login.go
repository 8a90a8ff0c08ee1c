// internal/app/features/auth/login.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /auth/login. Failures are reported with a
// single generic message so the response does not reveal whether the
// email is registered.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)

	if ok, reason := h.Limits.Check(r, req.Email); !ok {
		h.Audit.LoginFailedRateLimit(r.Context(), r, req.Email, reason)
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Burn roughly the same time as a real bcrypt compare.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(req.Password))
		h.Audit.LoginFailedUserNotFound(ctx, r, req.Email)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Audit.LoginFailedWrongPassword(ctx, r, user.ID, user.Email)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := sysauth.IssueToken(h.JWTSecret, *user, h.TokenTTL)
	if err != nil {
		respond.Internal(w, h.Log, "login: issue token", err)
		return
	}

	h.Limits.ResetEmail(user.Email)
	h.Audit.LoginSuccess(ctx, r, user.ID, user.Email)
	h.Log.Info("user logged in", zap.String("email", user.Email), zap.String("role", user.Role))

	h.setTokenCookie(w, token)
	respond.JSON(w, http.StatusOK, sessionResponse{Token: token, User: *user})
}

// HandleLogout handles POST /auth/logout. JWTs are not revocable; this
// just clears the cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := sysauth.CurrentClaims(r); ok {
		if uid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			h.Audit.Logout(r.Context(), r, uid)
		}
	}
	h.clearTokenCookie(w)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
