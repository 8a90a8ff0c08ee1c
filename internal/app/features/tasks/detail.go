// internal/app/features/tasks/detail.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/trackhub/internal/app/store/users"
	"github.com/dalemusser/trackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// HandleGet handles GET /tasks/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, _, _ := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	view, err := h.buildView(ctx, *task)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

// HandleUpdate handles PUT /tasks/{id}.
//
// Member payloads pass through the member field whitelist first: fields a
// member may not set are silently dropped, never rejected. A time_logged
// value appends a time log entry; a comments value appends a comment.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if role == models.RoleMember {
		payload = taskpolicy.FilterMemberUpdate(payload)
	}

	// Side-effect fields come out of the payload before the $set is
	// built. They are only validated here; nothing is written until the
	// whole payload has passed, so a bad field cannot leave a partial
	// update behind.
	var logHours float64
	if hours, ok := payload["time_logged"]; ok {
		delete(payload, "time_logged")
		f, ok := hours.(float64)
		if !ok || f <= 0 {
			respond.BadRequest(w, "time_logged must be a number greater than zero")
			return
		}
		logHours = f
	}
	var commentText string
	if text, ok := payload["comments"]; ok {
		delete(payload, "comments")
		s, _ := text.(string)
		s = normalize.Text(htmlsanitize.Sanitize(s))
		if s == "" {
			respond.BadRequest(w, "comment text cannot be empty")
			return
		}
		commentText = s
	}

	set := bson.M{}
	for key, v := range payload {
		switch key {
		case "title":
			s, _ := v.(string)
			s = normalize.Text(s)
			if s == "" {
				respond.BadRequest(w, "title cannot be empty")
				return
			}
			set["title"] = s
		case "description":
			s, _ := v.(string)
			set["description"] = htmlsanitize.Sanitize(s)
		case "status":
			s, _ := v.(string)
			if !models.ValidStatus(s) {
				respond.BadRequest(w, taskstore.ErrBadStatus.Error())
				return
			}
			set["status"] = s
		case "priority":
			s, _ := v.(string)
			if !models.ValidPriority(s) {
				respond.BadRequest(w, taskstore.ErrBadPriority.Error())
				return
			}
			set["priority"] = s
		case "tags":
			set["tags"] = toStrings(v)
		case "due_date":
			s, _ := v.(string)
			d, err := time.Parse(time.RFC3339, s)
			if err != nil {
				respond.BadRequest(w, "due_date must be RFC 3339")
				return
			}
			set["due_date"] = d
		case "assigned_to":
			assignees, err := h.resolveAssignees(ctx, toStrings(v))
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
			set["assigned_to"] = assignees
			set["last_assigned_by"] = userID
		}
		// Unknown keys are dropped for every role.
	}

	// The payload is fully validated; now apply the appends and the $set.
	if logHours > 0 {
		if _, err := h.Tasks.AppendTimeLog(ctx, task.ID, models.TimeLog{UserID: userID, Hours: logHours}); err != nil {
			respond.Internal(w, h.Log, "tasks: log time", err)
			return
		}
	}
	if commentText != "" {
		if _, err := h.Tasks.AddComment(ctx, task.ID, models.Comment{
			Author: models.Author{UserID: userID},
			Text:   commentText,
		}); err != nil {
			respond.Internal(w, h.Log, "tasks: add comment", err)
			return
		}
	}

	updated := task
	if len(set) > 0 {
		var err error
		updated, err = h.Tasks.Update(ctx, task.ID, set)
		if err != nil {
			if errors.Is(err, taskstore.ErrBadStatus) || errors.Is(err, taskstore.ErrBadPriority) {
				respond.BadRequest(w, err.Error())
				return
			}
			respond.Internal(w, h.Log, "tasks: update", err)
			return
		}
	} else {
		// Reload to pick up any appended comment or time log.
		var err error
		updated, err = h.Tasks.GetByID(ctx, task.ID)
		if err != nil {
			respond.Internal(w, h.Log, "tasks: reload", err)
			return
		}
	}

	view, err := h.buildView(ctx, *updated)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /tasks/{id}. Admin only, and only for
// tasks the admin created.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	if !taskpolicy.CanDelete(*task, role, userID) {
		respond.Forbidden(w, "only the admin who created a task can delete it")
		return
	}

	if _, err := h.Tasks.Delete(ctx, task.ID); err != nil {
		respond.Internal(w, h.Log, "tasks: delete", err)
		return
	}
	h.Audit.TaskDeleted(ctx, r, userID, task.ID)
	h.Log.Info("task deleted", zap.String("task_id", task.ID.Hex()))
	respond.JSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

func toStrings(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
