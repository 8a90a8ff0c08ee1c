// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  []string   `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
}

// HandleCreate handles POST /tasks (admin and manager only). Assignees
// may be given as hex ids or emails; an email that matches no user fails
// the whole request and is named in the response.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	req.Title = normalize.Text(req.Title)
	if req.Title == "" {
		respond.BadRequest(w, "title is required")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		respond.BadRequest(w, "invalid project_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "project not found")
		} else {
			respond.Internal(w, h.Log, "tasks: load project", err)
		}
		return
	}
	if !projectpolicy.CanAccess(*p, role, userID) {
		respond.Forbidden(w, "you do not have access to this project")
		return
	}

	assignees, err := h.resolveAssignees(ctx, req.AssignedTo)
	if err != nil {
		var unknownEmail *userstore.UnknownEmailError
		var unknownID *userstore.UnknownIDError
		if errors.As(err, &unknownEmail) || errors.As(err, &unknownID) {
			respond.NotFound(w, err.Error())
			return
		}
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   projectID,
		AssignedTo:  assignees,
		CreatedBy:   userID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if len(assignees) > 0 {
		task.LastAssignedBy = &userID
	}

	created, err := h.Tasks.Create(ctx, task)
	if err != nil {
		if errors.Is(err, taskstore.ErrBadStatus) || errors.Is(err, taskstore.ErrBadPriority) {
			respond.BadRequest(w, err.Error())
			return
		}
		respond.Internal(w, h.Log, "tasks: create", err)
		return
	}

	h.Log.Info("task created",
		zap.String("task_id", created.ID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.String("created_by", userID.Hex()),
	)

	view, err := h.buildView(ctx, created)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}
	respond.JSON(w, http.StatusCreated, view)
}
