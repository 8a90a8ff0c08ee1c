// internal/app/features/auth/handler.go
package auth

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auditlog"
	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/app/system/ratelimit"
)

// Handler is the feature-level handler for authentication. It holds the
// stores, mailer, and token settings provided by Startup.
type Handler struct {
	Log    *zap.Logger
	Users  *userstore.Store
	Mail   *mailer.Mailer
	Limits *ratelimit.LoginLimiter
	Audit  *auditlog.Logger // nil disables audit logging

	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
	ResetTTL   time.Duration
	BaseURL    string
	SiteName   string
}

func NewHandler(db *mongo.Database, mail *mailer.Mailer, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Users:  userstore.New(db),
		Mail:   mail,
		Limits: ratelimit.NewLoginLimiter(),
	}
}

// setTokenCookie mirrors the bearer token into an HTTP-only cookie so
// browser clients don't have to manage the Authorization header.
func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sysauth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sysauth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
