// internal/app/features/auth/password.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

// The forgot-password response is identical whether or not the email is
// registered, so the endpoint cannot be used to enumerate accounts.
const forgotMessage = "if that email is registered, a reset link has been sent"

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// TokenDigest returns the sha256 hex digest stored in place of a raw
// reset token.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HandleForgotPassword handles POST /auth/forgot-password. A raw token
// goes out in the email; only its sha256 digest is stored.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.Email == "" {
		respond.BadRequest(w, "email is required")
		return
	}

	if ok, reason := h.Limits.Check(r, req.Email); !ok {
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("forgot-password: lookup", zap.Error(err))
		}
		respond.JSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
		return
	}

	token := uuid.NewString()
	expiry := time.Now().Add(h.ResetTTL)
	if err := h.Users.SetResetToken(ctx, user.ID, TokenDigest(token), expiry); err != nil {
		respond.Internal(w, h.Log, "forgot-password: store token", err)
		return
	}

	// Delivery is fire-and-forget; the response does not wait on SMTP.
	email := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.SiteName,
		ResetURL:  fmt.Sprintf("%s/reset-password?token=%s", h.BaseURL, token),
		ExpiresIn: h.ResetTTL.String(),
	})
	email.To = user.Email
	h.Audit.PasswordResetRequested(ctx, r, user.ID, user.Email)
	go func() {
		if err := h.Mail.Send(email); err != nil {
			h.Log.Error("forgot-password: send email", zap.Error(err))
		}
	}()

	respond.JSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
}

// HandleVerifyResetToken handles GET /auth/verify-reset-token?token=.
// Unknown and expired tokens are indistinguishable.
func (h *Handler) HandleVerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respond.BadRequest(w, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByResetToken(ctx, TokenDigest(token)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.BadRequest(w, "invalid or expired token")
			return
		}
		respond.Internal(w, h.Log, "verify-reset-token: lookup", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// HandleResetPassword handles POST /auth/reset-password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Token == "" {
		respond.BadRequest(w, "token is required")
		return
	}
	if len(req.Password) < minPasswordLen {
		respond.BadRequest(w, "password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByResetToken(ctx, TokenDigest(req.Token))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.BadRequest(w, "invalid or expired token")
			return
		}
		respond.Internal(w, h.Log, "reset-password: lookup", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		respond.Internal(w, h.Log, "reset-password: hash password", err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		respond.Internal(w, h.Log, "reset-password: update", err)
		return
	}

	h.Audit.PasswordResetCompleted(ctx, r, user.ID)
	h.Log.Info("password reset", zap.String("email", user.Email))
	respond.JSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}
