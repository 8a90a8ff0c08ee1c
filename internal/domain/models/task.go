// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. Any status may transition directly to any other; the
// field is a free-form enum, not a workflow graph.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether s is a recognized task priority.
func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the unit of work inside a project. Comments and time logs are
// embedded and die with the task; they have no independent lifecycle.
//
// LastAssignedBy is an explicit optional field: it is present only on tasks
// that have been (re)assigned since the field was introduced, and nil
// everywhere else.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      string               `bson:"status" json:"status"`
	Priority    string               `bson:"priority" json:"priority"`
	ProjectID   primitive.ObjectID   `bson:"project_id" json:"project_id"`
	AssignedTo  []primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	LastAssignedBy *primitive.ObjectID `bson:"last_assigned_by,omitempty" json:"last_assigned_by,omitempty"`

	DueDate *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Tags    []string   `bson:"tags,omitempty" json:"tags,omitempty"`

	Comments []Comment `bson:"comments" json:"comments"`
	TimeLogs []TimeLog `bson:"time_logs" json:"time_logs"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TotalHours sums the task's time log entries.
func (t *Task) TotalHours() float64 {
	var sum float64
	for _, tl := range t.TimeLogs {
		sum += tl.Hours
	}
	return sum
}

// CommentByID returns a pointer to the embedded comment with the given id,
// or nil if the task has no such comment.
func (t *Task) CommentByID(id primitive.ObjectID) *Comment {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return &t.Comments[i]
		}
	}
	return nil
}

// TimeLog is an append-only record of hours spent on a task. Entries are
// never edited or deleted.
type TimeLog struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Hours  float64            `bson:"hours" json:"hours"`
	Date   time.Time          `bson:"date" json:"date"`
}
