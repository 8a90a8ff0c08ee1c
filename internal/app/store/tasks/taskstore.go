package taskstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/app/system/threads"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var (
	ErrBadStatus   = errors.New(`status must be "todo"|"in_progress"|"done"`)
	ErrBadPriority = errors.New(`priority must be "low"|"medium"|"high"`)

	// ErrNoComment is returned when a comment id does not exist on the task.
	ErrNoComment = errors.New("task has no such comment")
)

// Create inserts a new task after validating enum fields and filling
// defaults. Empty status and priority default to todo/medium.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !models.ValidStatus(t.Status) {
		return models.Task{}, ErrBadStatus
	}
	if !models.ValidPriority(t.Priority) {
		return models.Task{}, ErrBadPriority
	}
	if t.Comments == nil {
		t.Comments = []models.Comment{}
	}
	if t.TimeLogs == nil {
		t.TimeLogs = []models.TimeLog{}
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the page of tasks matching filter, newest first, along
// with the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, page paging.Page) ([]models.Task, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update applies a partial $set and returns the fresh document. Enum
// fields present in set are validated. Returns mongo.ErrNoDocuments if
// the task does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Task, error) {
	if v, ok := set["status"].(string); ok && !models.ValidStatus(v) {
		return nil, ErrBadStatus
	}
	if v, ok := set["priority"].(string); ok && !models.ValidPriority(v) {
		return nil, ErrBadPriority
	}
	set["updated_at"] = time.Now()

	var t models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the task.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes all tasks under a project. Used when the
// project itself is deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Assign replaces the full assignee set and records who did it.
func (s *Store) Assign(ctx context.Context, id primitive.ObjectID, assignees []primitive.ObjectID, by primitive.ObjectID) (*models.Task, error) {
	if assignees == nil {
		assignees = []primitive.ObjectID{}
	}
	return s.Update(ctx, id, bson.M{
		"assigned_to":      assignees,
		"last_assigned_by": by,
	})
}

// AddComment appends a comment to the task and returns it with its
// generated id and timestamp filled in.
func (s *Store) AddComment(ctx context.Context, taskID primitive.ObjectID, c models.Comment) (models.Comment, error) {
	c.ID = primitive.NewObjectID()
	c.Timestamp = time.Now()
	if c.Reactions == nil {
		c.Reactions = []models.Reaction{}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return models.Comment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, mongo.ErrNoDocuments
	}
	return c, nil
}

// UpdateComment replaces a comment's text and marks it edited. The
// original timestamp is kept. Returns ErrNoComment if the task exists
// but has no such comment.
func (s *Store) UpdateComment(ctx context.Context, taskID, commentID primitive.ObjectID, text string) error {
	now := time.Now()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": taskID, "comments._id": commentID},
		bson.M{"$set": bson.M{
			"comments.$.text":      text,
			"comments.$.edited":    true,
			"comments.$.edited_at": now,
			"updated_at":           now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoComment
	}
	return nil
}

// DeleteComment removes a comment from the task. Replies to it are left
// in place and surface as thread roots. Returns ErrNoComment if nothing
// was removed.
func (s *Store) DeleteComment(ctx context.Context, taskID, commentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNoComment
	}
	return nil
}

// ToggleReaction adds the (user, emoji) reaction to a comment, or removes
// it if already present, and returns the comment's new reaction list.
//
// This is a read-modify-write; two concurrent toggles on the same comment
// can race and one may be lost. Accepted for this workload.
func (s *Store) ToggleReaction(ctx context.Context, taskID, commentID, userID primitive.ObjectID, emoji string) ([]models.Reaction, error) {
	task, err := s.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	comment := task.CommentByID(commentID)
	if comment == nil {
		return nil, ErrNoComment
	}

	next := threads.Toggle(comment.Reactions, userID, emoji)
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": taskID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.reactions": next}},
	)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// AppendTimeLog adds an entry to the task's time log and returns the
// updated task. Entries are append-only.
func (s *Store) AppendTimeLog(ctx context.Context, taskID primitive.ObjectID, tl models.TimeLog) (*models.Task, error) {
	tl.ID = primitive.NewObjectID()
	if tl.Date.IsZero() {
		tl.Date = time.Now()
	}

	var t models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": taskID},
		bson.M{
			"$push": bson.M{"time_logs": tl},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Search finds tasks whose title, description, or tags contain q,
// case-insensitively, capped at limit.
func (s *Store) Search(ctx context.Context, scope bson.M, q string, limit int64) ([]models.Task, error) {
	filter := bson.M{
		"$and": bson.A{
			scope,
			bson.M{"$or": bson.A{
				bson.M{"title": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"description": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"tags": bson.M{"$regex": q, "$options": "i"}},
			}},
		},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
