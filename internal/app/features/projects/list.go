// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/trackhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/authz"
	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type listResponse struct {
	Projects   []models.Project `json:"projects"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"totalPages"`
}

// HandleList handles GET /projects.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	page := paging.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, total, err := h.Projects.List(ctx, projectpolicy.ListFilter(role, userID), page)
	if err != nil {
		respond.Internal(w, h.Log, "projects: list", err)
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Projects:   projects,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: paging.TotalPages(total, page.Limit),
	})
}
