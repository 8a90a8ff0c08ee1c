// internal/app/policy/projectpolicy.go
package projectpolicy

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/trackhub/internal/domain/models"
)

// ListFilter returns the Mongo filter scoping the project list to what
// the user may see. Admins see only projects they created; managers and
// members see projects they created or belong to.
func ListFilter(role string, userID primitive.ObjectID) bson.M {
	if role == models.RoleAdmin {
		return bson.M{"created_by": userID}
	}
	return bson.M{"$or": bson.A{
		bson.M{"team_members": userID},
		bson.M{"created_by": userID},
	}}
}

// SearchFilter returns the Mongo filter scoping quick search. Like task
// search, admins search across all projects, not just the ones they
// created; managers and members keep the ListFilter scope.
func SearchFilter(role string, userID primitive.ObjectID) bson.M {
	if role == models.RoleAdmin {
		return bson.M{}
	}
	return ListFilter(role, userID)
}

// CanAccess reports whether the user may read or modify the project.
// Admin access still requires ownership; a project created by one admin
// is invisible to another.
func CanAccess(p models.Project, role string, userID primitive.ObjectID) bool {
	if p.CreatedBy == userID {
		return true
	}
	if role == models.RoleAdmin {
		return false
	}
	for _, m := range p.TeamMembers {
		if m == userID {
			return true
		}
	}
	return false
}

// CanDelete reports whether the user may delete the project. Only the
// admin who created it can.
func CanDelete(p models.Project, role string, userID primitive.ObjectID) bool {
	return role == models.RoleAdmin && p.CreatedBy == userID
}
