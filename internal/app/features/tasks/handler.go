// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/auditlog"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// Handler is the feature-level handler for Tasks. It holds the stores and
// logger provided by Startup.
type Handler struct {
	Log      *zap.Logger
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
	Audit    *auditlog.Logger // nil disables audit logging
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Tasks:    taskstore.New(db),
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
	}
}

// loadTask resolves {id}, loads the task, and checks the caller may see
// it, either directly or through the task's project. Responds and returns
// nil on any failure.
func (h *Handler) loadTask(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Task, string, primitive.ObjectID) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return nil, "", primitive.NilObjectID
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid task id")
		return nil, "", primitive.NilObjectID
	}

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "task not found")
		} else {
			respond.Internal(w, h.Log, "tasks: load", err)
		}
		return nil, "", primitive.NilObjectID
	}

	if !taskpolicy.CanView(*task, role, userID) && !h.canAccessProject(ctx, task.ProjectID, role, userID) {
		respond.Forbidden(w, "you do not have access to this task")
		return nil, "", primitive.NilObjectID
	}
	return task, role, userID
}

func (h *Handler) canAccessProject(ctx context.Context, projectID primitive.ObjectID, role string, userID primitive.ObjectID) bool {
	p, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		return false
	}
	return projectpolicy.CanAccess(*p, role, userID)
}

// resolveAssignees accepts a mix of hex ids and emails. Every entry must
// reference an existing user or the whole call fails naming the
// offending id or email.
func (h *Handler) resolveAssignees(ctx context.Context, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	var emails []string
	for _, s := range raw {
		if id, err := primitive.ObjectIDFromHex(s); err == nil {
			ids = append(ids, id)
			continue
		}
		emails = append(emails, s)
	}
	if err := h.Users.VerifyIDs(ctx, ids); err != nil {
		return nil, err
	}
	resolved, err := h.Users.ResolveEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	return append(ids, resolved...), nil
}
