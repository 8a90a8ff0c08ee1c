// internal/app/features/projects/detail.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type projectDetail struct {
	models.Project
	Team []models.UserRef `json:"team"`
}

// loadAuthorized loads the project and checks the caller may touch it.
// Responds and returns nil on any failure.
func (h *Handler) loadAuthorized(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Project, string, primitive.ObjectID) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return nil, "", primitive.NilObjectID
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid project id")
		return nil, "", primitive.NilObjectID
	}

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "project not found")
		} else {
			respond.Internal(w, h.Log, "projects: load", err)
		}
		return nil, "", primitive.NilObjectID
	}
	if !projectpolicy.CanAccess(*p, role, userID) {
		respond.Forbidden(w, "you do not have access to this project")
		return nil, "", primitive.NilObjectID
	}
	return p, role, userID
}

// HandleGet handles GET /projects/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, _ := h.loadAuthorized(ctx, w, r)
	if p == nil {
		return
	}

	team, err := h.Users.Refs(ctx, p.TeamMembers)
	if err != nil {
		respond.Internal(w, h.Log, "projects: resolve team", err)
		return
	}
	respond.JSON(w, http.StatusOK, projectDetail{Project: *p, Team: team})
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	TeamMembers *[]string  `json:"team_members"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// HandleUpdate handles PUT and PATCH /projects/{id}. Both apply the same
// partial update; absent fields are left alone.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, _ := h.loadAuthorized(ctx, w, r)
	if p == nil {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}

	set := bson.M{}
	if req.Title != nil {
		title := normalize.Text(*req.Title)
		if title == "" {
			respond.BadRequest(w, "title cannot be empty")
			return
		}
		set["title"] = title
	}
	if req.Description != nil {
		set["description"] = htmlsanitize.Sanitize(*req.Description)
	}
	if req.TeamMembers != nil {
		team, err := h.parseTeam(ctx, *req.TeamMembers)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}
		set["team_members"] = team
	}
	if req.StartDate != nil {
		set["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		set["end_date"] = *req.EndDate
	}
	if len(set) == 0 {
		respond.BadRequest(w, "no fields to update")
		return
	}

	updated, err := h.Projects.Update(ctx, p.ID, set)
	if err != nil {
		respond.Internal(w, h.Log, "projects: update", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /projects/{id}. Only the admin who created
// the project may delete it; the project's tasks go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, role, userID := h.loadAuthorized(ctx, w, r)
	if p == nil {
		return
	}
	if !projectpolicy.CanDelete(*p, role, userID) {
		respond.Forbidden(w, "only the admin who created a project can delete it")
		return
	}

	if _, err := h.Projects.Delete(ctx, p.ID); err != nil {
		respond.Internal(w, h.Log, "projects: delete", err)
		return
	}
	// Not transactional with the project delete; a crash here leaves
	// orphaned tasks behind.
	n, err := h.Tasks.DeleteByProject(ctx, p.ID)
	if err != nil {
		respond.Internal(w, h.Log, "projects: delete tasks", err)
		return
	}

	h.Audit.ProjectDeleted(ctx, r, userID, p.ID, n)
	h.Log.Info("project deleted",
		zap.String("project_id", p.ID.Hex()),
		zap.Int64("tasks_removed", n),
	)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
