// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

type listResponse struct {
	Tasks      []taskView `json:"tasks"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int64      `json:"totalPages"`
}

// HandleList handles GET /tasks?projectId=&page=&limit=.
//
// With projectId the caller is checked against the project and then sees
// all of its tasks; without it each role gets its own slice of the
// collection.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var projectID *primitive.ObjectID
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "invalid projectId")
			return
		}
		p, err := h.Projects.GetByID(ctx, id)
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
		projectID = &id
	}

	page := paging.Parse(r)
	list, total, err := h.Tasks.List(ctx, taskpolicy.ListFilter(role, userID, projectID), page)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: list", err)
		return
	}
	views, err := h.buildViews(ctx, list)
	if err != nil {
		respond.Internal(w, h.Log, "tasks: resolve assignees", err)
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Tasks:      views,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: paging.TotalPages(total, page.Limit),
	})
}
