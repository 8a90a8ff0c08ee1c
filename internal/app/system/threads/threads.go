// internal/app/system/threads/threads.go
//
// Package threads rebuilds comment trees from the flat per-task comment
// list and implements the reaction toggle. Everything here is pure: the
// store reads a task, these functions transform its embedded arrays, and
// the store writes the result back.
package threads

import (
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node is a comment with its replies attached.
type Node struct {
	models.Comment
	Replies []*Node `json:"replies"`
}

// Build reconstructs the reply tree from a flat comment list.
//
// Two passes: first index every comment by id, then attach each comment to
// its parent. A comment whose ParentID references nothing in the list is
// treated as a root — orphaned replies are tolerated, since parent_id
// referential integrity is not guaranteed after deletes.
func Build(comments []models.Comment) []*Node {
	nodes := make(map[primitive.ObjectID]*Node, len(comments))
	ordered := make([]*Node, 0, len(comments))
	for _, c := range comments {
		n := &Node{Comment: c, Replies: []*Node{}}
		nodes[c.ID] = n
		ordered = append(ordered, n)
	}

	roots := make([]*Node, 0, len(ordered))
	for _, n := range ordered {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// Toggle flips the (user, emoji) reaction: removed if present, appended if
// absent. Calling it twice with the same pair restores the original set.
func Toggle(reactions []models.Reaction, userID primitive.ObjectID, emoji string) []models.Reaction {
	for i, r := range reactions {
		if r.UserID == userID && r.Emoji == emoji {
			return append(reactions[:i:i], reactions[i+1:]...)
		}
	}
	return append(reactions, models.Reaction{UserID: userID, Emoji: emoji})
}

// Group is the display shape for a comment's reactions: one entry per
// emoji with the count and the reacting users.
type Group struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// GroupReactions collapses a reaction list by emoji, preserving first-seen
// emoji order.
func GroupReactions(reactions []models.Reaction) []Group {
	index := make(map[string]int, len(reactions))
	groups := make([]Group, 0, len(reactions))
	for _, r := range reactions {
		i, ok := index[r.Emoji]
		if !ok {
			i = len(groups)
			index[r.Emoji] = i
			groups = append(groups, Group{Emoji: r.Emoji})
		}
		groups[i].Count++
		groups[i].Users = append(groups[i].Users, r.UserID.Hex())
	}
	return groups
}
