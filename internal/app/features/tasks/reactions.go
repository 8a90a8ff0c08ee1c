// internal/app/features/tasks/reactions.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/threads"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

// HandleToggleReaction handles POST
// /tasks/{id}/comments/{commentId}/reactions. Posting the same emoji
// twice removes it; the response carries the comment's grouped reactions.
func (h *Handler) HandleToggleReaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, _, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	comment := loadComment(w, r, task)
	if comment == nil {
		return
	}

	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Emoji == "" {
		respond.BadRequest(w, "emoji is required")
		return
	}

	next, err := h.Tasks.ToggleReaction(ctx, task.ID, comment.ID, userID, req.Emoji)
	if err != nil {
		if errors.Is(err, taskstore.ErrNoComment) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.Internal(w, h.Log, "tasks: toggle reaction", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"reactions": threads.GroupReactions(next),
	})
}
