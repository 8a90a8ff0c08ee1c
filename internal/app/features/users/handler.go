// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Handler serves the assignment picker.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: userstore.New(db)}
}

// HandleList handles GET /users. Managers pick from members; admins pick
// from managers and members. Members have no picker.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var roles []string
	switch role {
	case models.RoleAdmin:
		roles = []string{models.RoleManager, models.RoleMember}
	case models.RoleManager:
		roles = []string{models.RoleMember}
	default:
		respond.Forbidden(w, "members cannot list users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	refs, err := h.Users.ListByRoles(ctx, roles...)
	if err != nil {
		respond.Internal(w, h.Log, "users: list", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"users": refs})
}
