// internal/app/features/projects/create.go
package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

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
	TeamMembers []string   `json:"team_members"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// parseTeam converts hex ids and verifies each references a real user.
// A single bad entry fails the whole request.
func (h *Handler) parseTeam(ctx context.Context, raw []string) ([]primitive.ObjectID, error) {
	team := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid team member id %q", s)
		}
		if _, err := h.Users.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("no user with id %s", s)
		}
		team = append(team, id)
	}
	return team, nil
}

// HandleCreate handles POST /projects (admin and manager only).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := h.parseTeam(ctx, req.TeamMembers)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	created, err := h.Projects.Create(ctx, models.Project{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		CreatedBy:   userID,
		TeamMembers: team,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respond.Internal(w, h.Log, "projects: create", err)
		return
	}

	h.Audit.ProjectCreated(ctx, r, userID, created.ID, created.Title)
	h.Log.Info("project created",
		zap.String("project_id", created.ID.Hex()),
		zap.String("created_by", userID.Hex()),
	)
	respond.JSON(w, http.StatusCreated, created)
}
