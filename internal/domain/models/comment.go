// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author identifies who wrote a comment. Exactly one branch is set:
// UserID for registered commenters, Email for anonymous ones. Display
// resolution (id → email) happens at read time, not at storage time.
type Author struct {
	UserID primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty"`
}

// Anonymous reports whether the author is an unregistered commenter.
func (a Author) Anonymous() bool {
	return a.UserID.IsZero()
}

// Comment is embedded in a task. Comments are stored as a flat list;
// threading is reconstructed at read time from ParentID references.
// A ParentID pointing at a comment that no longer exists is tolerated:
// such replies are rendered as roots.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Author    Author              `bson:"author" json:"author"`
	Text      string              `bson:"text" json:"text"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Reactions []Reaction          `bson:"reactions" json:"reactions"`
	Edited    bool                `bson:"edited" json:"edited"`
	EditedAt  *time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
}

// Reaction is a per-user emoji mark on a comment. At most one reaction per
// (user, emoji) pair exists on a comment; the uniqueness is maintained by
// toggle semantics, not by a storage constraint.
type Reaction struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Emoji  string             `bson:"emoji" json:"emoji"`
}
