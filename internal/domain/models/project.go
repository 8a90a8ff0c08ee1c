// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a container for tasks, shared with a set of team members.
//
// The creator is added to TeamMembers when the project is created, but the
// invariant `CreatedBy ∈ TeamMembers` is not re-enforced on later updates;
// callers that rewrite the member list can remove the creator.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`
	TeamMembers []primitive.ObjectID `bson:"team_members" json:"team_members"`
	StartDate   *time.Time           `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     *time.Time           `bson:"end_date,omitempty" json:"end_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
