// internal/app/features/search/handler.go
package search

import (
	"context"
	"net/http"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	projectstore "github.com/dalemusser/trackhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

// At most this many hits per kind; quick search feeds a dropdown, not a
// results page.
const perKindLimit = 5

// Handler serves quick search across projects and tasks.
type Handler struct {
	Log      *zap.Logger
	Projects *projectstore.Store
	Tasks    *taskstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Projects: projectstore.New(db),
		Tasks:    taskstore.New(db),
	}
}

type combinedResponse struct {
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
}

// query returns the sanitized search term, or "" if the request should
// short-circuit to empty results.
func query(r *http.Request) string {
	q := normalize.Text(r.URL.Query().Get("q"))
	if q == "" {
		return ""
	}
	// The term is matched as a literal substring, not a user-supplied
	// regex.
	return regexp.QuoteMeta(q)
}

// HandleCombined handles GET /search?q=.
func (h *Handler) HandleCombined(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	resp := combinedResponse{Projects: []models.Project{}, Tasks: []models.Task{}}
	q := query(r)
	if q == "" {
		respond.JSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.Search(ctx, projectpolicy.SearchFilter(role, userID), q, perKindLimit)
	if err != nil {
		respond.Internal(w, h.Log, "search: projects", err)
		return
	}
	tasks, err := h.Tasks.Search(ctx, taskpolicy.SearchFilter(role, userID), q, perKindLimit)
	if err != nil {
		respond.Internal(w, h.Log, "search: tasks", err)
		return
	}

	resp.Projects = projects
	resp.Tasks = tasks
	respond.JSON(w, http.StatusOK, resp)
}

// HandleProjects handles GET /search/projects?q=.
func (h *Handler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	q := query(r)
	if q == "" {
		respond.JSON(w, http.StatusOK, map[string]any{"projects": []models.Project{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.Search(ctx, projectpolicy.SearchFilter(role, userID), q, perKindLimit)
	if err != nil {
		respond.Internal(w, h.Log, "search: projects", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// HandleTasks handles GET /search/tasks?q=.
func (h *Handler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	q := query(r)
	if q == "" {
		respond.JSON(w, http.StatusOK, map[string]any{"tasks": []models.Task{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.Search(ctx, taskpolicy.SearchFilter(role, userID), q, perKindLimit)
	if err != nil {
		respond.Internal(w, h.Log, "search: tasks", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
