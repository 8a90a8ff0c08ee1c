// internal/app/features/tasks/assign.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

type assignRequest struct {
	Assignees []string `json:"assignees"`
}

// HandleAssign handles PUT /tasks/{id}/assign (admin and manager only).
// The assignee set is replaced wholesale; assigning an empty list clears
// the task. The caller is recorded as last_assigned_by.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	if !taskpolicy.CanAssign(role) {
		respond.Forbidden(w, "members cannot reassign tasks")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}

	assignees, err := h.resolveAssignees(ctx, req.Assignees)
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

	updated, err := h.Tasks.Assign(ctx, task.ID, assignees, userID)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: assign", err)
		return
	}

	h.Audit.TaskAssigned(ctx, r, userID, task.ID, assignees)
	h.Log.Info("task assigned",
		zap.String("task_id", task.ID.Hex()),
		zap.Int("assignees", len(assignees)),
		zap.String("assigned_by", userID.Hex()),
	)

	view, err := h.buildView(ctx, *updated)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
