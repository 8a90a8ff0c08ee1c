// internal/app/features/tasks/comments.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	"github.com/dalemusser/trackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/threads"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// commentView is a threaded comment with its author resolved and
// reactions grouped for display.
type commentView struct {
	ID        primitive.ObjectID  `json:"id"`
	Author    authorView          `json:"author"`
	Text      string              `json:"text"`
	Timestamp time.Time           `json:"timestamp"`
	ParentID  *primitive.ObjectID `json:"parent_id,omitempty"`
	Edited    bool                `json:"edited"`
	EditedAt  *time.Time          `json:"edited_at,omitempty"`
	Reactions []threads.Group     `json:"reactions"`
	Replies   []commentView       `json:"replies"`
}

type authorView struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

// buildCommentViews resolves authors for the whole tree in one query and
// converts thread nodes into the response shape.
func (h *Handler) buildCommentViews(ctx context.Context, nodes []*threads.Node) ([]commentView, error) {
	idSet := map[primitive.ObjectID]struct{}{}
	var collect func(ns []*threads.Node)
	collect = func(ns []*threads.Node) {
		for _, n := range ns {
			if !n.Author.Anonymous() {
				idSet[n.Author.UserID] = struct{}{}
			}
			collect(n.Replies)
		}
	}
	collect(nodes)

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	refs, err := h.Users.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	emails := make(map[primitive.ObjectID]string, len(refs))
	for _, ref := range refs {
		emails[ref.ID] = ref.Email
	}

	var convert func(ns []*threads.Node) []commentView
	convert = func(ns []*threads.Node) []commentView {
		out := make([]commentView, 0, len(ns))
		for _, n := range ns {
			v := commentView{
				ID:        n.ID,
				Text:      n.Text,
				Timestamp: n.Timestamp,
				ParentID:  n.ParentID,
				Edited:    n.Edited,
				EditedAt:  n.EditedAt,
				Reactions: threads.GroupReactions(n.Reactions),
				Replies:   convert(n.Replies),
			}
			if n.Author.Anonymous() {
				v.Author = authorView{Email: n.Author.Email}
			} else {
				v.Author = authorView{ID: n.Author.UserID.Hex(), Email: emails[n.Author.UserID]}
			}
			out = append(out, v)
		}
		return out
	}
	return convert(nodes), nil
}

// HandleListComments handles GET /tasks/{id}/comments. Comments are
// stored flat and threaded here; replies whose parent was deleted come
// back as roots.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, _, _ := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}

	views, err := h.buildCommentViews(ctx, threads.Build(task.Comments))
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve comment authors", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"comments": views})
}

type addCommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parent_id"`
}

// HandleAddComment handles POST /tasks/{id}/comments. A supplied
// parent_id must reference a comment on this task.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	if !taskpolicy.CanComment(*task, role, userID) {
		respond.Forbidden(w, "you cannot comment on this task")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	text := normalize.Text(htmlsanitize.Sanitize(req.Text))
	if text == "" {
		respond.BadRequest(w, "comment text cannot be empty")
		return
	}

	comment := models.Comment{
		Author: models.Author{UserID: userID},
		Text:   text,
	}
	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			respond.BadRequest(w, "invalid parent_id")
			return
		}
		if task.CommentByID(parentID) == nil {
			respond.BadRequest(w, "parent_id does not reference a comment on this task")
			return
		}
		comment.ParentID = &parentID
	}

	created, err := h.Tasks.AddComment(ctx, task.ID, comment)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: add comment", err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// loadComment resolves {commentId} against an already-loaded task.
func loadComment(w http.ResponseWriter, r *http.Request, task *models.Task) *models.Comment {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		respond.BadRequest(w, "invalid comment id")
		return nil
	}
	c := task.CommentByID(id)
	if c == nil {
		respond.NotFound(w, "comment not found")
		return nil
	}
	return c
}

type editCommentRequest struct {
	Text string `json:"text"`
}

// HandleEditComment handles PUT /tasks/{id}/comments/{commentId}. Only
// the comment's author or an admin may edit; the edit is marked but the
// original timestamp is kept.
func (h *Handler) HandleEditComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	comment := loadComment(w, r, task)
	if comment == nil {
		return
	}
	if !taskpolicy.CanModifyComment(*comment, role, userID) {
		respond.Forbidden(w, "only the comment author or an admin can edit it")
		return
	}

	var req editCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	text := normalize.Text(htmlsanitize.Sanitize(req.Text))
	if text == "" {
		respond.BadRequest(w, "comment text cannot be empty")
		return
	}

	if err := h.Tasks.UpdateComment(ctx, task.ID, comment.ID, text); err != nil {
		if errors.Is(err, taskstore.ErrNoComment) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.Internal(w, h.Log, "tasks: edit comment", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "comment updated"})
}

// HandleDeleteComment handles DELETE /tasks/{id}/comments/{commentId}.
// Replies are left in place and surface as thread roots.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, role, userID := h.loadTask(ctx, w, r)
	if task == nil {
		return
	}
	comment := loadComment(w, r, task)
	if comment == nil {
		return
	}
	if !taskpolicy.CanModifyComment(*comment, role, userID) {
		respond.Forbidden(w, "only the comment author or an admin can delete it")
		return
	}

	if err := h.Tasks.DeleteComment(ctx, task.ID, comment.ID); err != nil {
		if errors.Is(err, taskstore.ErrNoComment) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.Internal(w, h.Log, "tasks: delete comment", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
