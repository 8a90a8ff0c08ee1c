// internal/app/policy/taskpolicy.go
package taskpolicy

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/trackhub/internal/domain/models"
)

// ListFilter returns the Mongo filter scoping the task list. When a
// project id is given the caller has already been checked against that
// project, so the role filter is skipped and all of the project's tasks
// are visible. Outside a project context admins see tasks they created,
// managers see tasks they created, were assigned, or last assigned, and
// members see only tasks assigned to them.
func ListFilter(role string, userID primitive.ObjectID, projectID *primitive.ObjectID) bson.M {
	if projectID != nil {
		return bson.M{"project_id": *projectID}
	}
	switch role {
	case models.RoleAdmin:
		return bson.M{"created_by": userID}
	case models.RoleManager:
		return bson.M{"$or": bson.A{
			bson.M{"assigned_to": userID},
			bson.M{"created_by": userID},
			bson.M{"last_assigned_by": userID},
		}}
	default:
		return bson.M{"assigned_to": userID}
	}
}

// SearchFilter returns the Mongo filter scoping quick search. It is
// deliberately looser than ListFilter for admins, who search across all
// tasks, and tighter for managers, who search only work they created or
// hold.
func SearchFilter(role string, userID primitive.ObjectID) bson.M {
	switch role {
	case models.RoleAdmin:
		return bson.M{}
	case models.RoleManager:
		return bson.M{"$or": bson.A{
			bson.M{"assigned_to": userID},
			bson.M{"created_by": userID},
		}}
	default:
		return bson.M{"assigned_to": userID}
	}
}

// CanView reports whether the user may read the task.
func CanView(t models.Task, role string, userID primitive.ObjectID) bool {
	if t.CreatedBy == userID {
		return true
	}
	if t.LastAssignedBy != nil && *t.LastAssignedBy == userID {
		return true
	}
	for _, a := range t.AssignedTo {
		if a == userID {
			return true
		}
	}
	return false
}

// CanDelete reports whether the user may delete the task. Only admins can,
// and only for tasks they created.
func CanDelete(t models.Task, role string, userID primitive.ObjectID) bool {
	return role == models.RoleAdmin && t.CreatedBy == userID
}

// CanAssign reports whether the user may change the task's assignee set.
// Members manage only their own work and never reassign.
func CanAssign(role string) bool {
	return role == models.RoleAdmin || role == models.RoleManager
}

// CanComment reports whether the user may comment on the task. Admins
// and managers comment on anything they can see; members must be
// assigned or be the creator.
func CanComment(t models.Task, role string, userID primitive.ObjectID) bool {
	if role == models.RoleAdmin || role == models.RoleManager {
		return true
	}
	return CanView(t, role, userID)
}

// MemberAllowedFields are the update payload keys a member may set on a
// task assigned to them. Everything else is silently dropped rather than
// rejected, matching the update surface exposed to member clients.
var MemberAllowedFields = map[string]bool{
	"status":      true,
	"comments":    true,
	"time_logged": true,
}

// FilterMemberUpdate strips update fields a member may not set. The
// returned map shares values with the input.
func FilterMemberUpdate(update map[string]any) map[string]any {
	out := make(map[string]any, len(update))
	for k, v := range update {
		if MemberAllowedFields[k] {
			out[k] = v
		}
	}
	return out
}

// CanModifyComment reports whether the user may edit or delete the given
// comment: its registered author may, and admins may moderate anything.
// Anonymous comments have no author identity, so only admins can touch
// them after the fact.
func CanModifyComment(c models.Comment, role string, userID primitive.ObjectID) bool {
	if role == models.RoleAdmin {
		return true
	}
	return !c.Author.Anonymous() && c.Author.UserID == userID
}
