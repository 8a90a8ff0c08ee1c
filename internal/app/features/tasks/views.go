// internal/app/features/tasks/views.go
package tasks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/trackhub/internal/domain/models"
)

// taskView is a task with assignee identities and the project title
// resolved for display.
type taskView struct {
	models.Task
	ProjectTitle string           `json:"project_title"`
	Assignees    []models.UserRef `json:"assignees"`
	TotalHours   float64          `json:"total_hours"`
}

// buildViews resolves assignee refs and project titles for a batch of
// tasks with one user query and one project query.
func (h *Handler) buildViews(ctx context.Context, list []models.Task) ([]taskView, error) {
	idSet := map[primitive.ObjectID]struct{}{}
	projectSet := map[primitive.ObjectID]struct{}{}
	for _, t := range list {
		projectSet[t.ProjectID] = struct{}{}
		for _, id := range t.AssignedTo {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	refs, err := h.Users.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	projectIDs := make([]primitive.ObjectID, 0, len(projectSet))
	for id := range projectSet {
		projectIDs = append(projectIDs, id)
	}
	titles, err := h.Projects.Titles(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	views := make([]taskView, 0, len(list))
	for _, t := range list {
		v := taskView{
			Task:         t,
			ProjectTitle: titles[t.ProjectID],
			Assignees:    []models.UserRef{},
			TotalHours:   t.TotalHours(),
		}
		for _, id := range t.AssignedTo {
			if ref, ok := byID[id]; ok {
				v.Assignees = append(v.Assignees, ref)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (h *Handler) buildView(ctx context.Context, t models.Task) (taskView, error) {
	views, err := h.buildViews(ctx, []models.Task{t})
	if err != nil {
		return taskView{}, err
	}
	return views[0], nil
}
