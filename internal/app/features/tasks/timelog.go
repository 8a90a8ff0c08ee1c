// internal/app/features/tasks/timelog.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type logTimeRequest struct {
	Hours float64    `json:"hours"`
	Date  *time.Time `json:"date"`
}

type logTimeResponse struct {
	Entry      models.TimeLog `json:"entry"`
	User       string         `json:"user"`
	TotalHours float64        `json:"total_hours"`
}

// HandleLogTime handles POST /tasks/{id}/logtime. Entries are
// append-only; nothing edits or removes them later.
func (h *Handler) HandleLogTime(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, _, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}

	var req logTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Hours <= 0 {
		respond.BadRequest(w, "hours must be greater than zero")
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		respond.NotFound(w, "user not found")
		return
	}

	entry := models.TimeLog{UserID: userID, Hours: req.Hours}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	updated, err := h.Tasks.AppendTimeLog(ctx, task.ID, entry)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: log time", err)
		return
	}

	// The stored entry is the last one appended.
	stored := updated.TimeLogs[len(updated.TimeLogs)-1]
	respond.JSON(w, http.StatusCreated, logTimeResponse{
		Entry:      stored,
		User:       user.Email,
		TotalHours: updated.TotalHours(),
	})
}
