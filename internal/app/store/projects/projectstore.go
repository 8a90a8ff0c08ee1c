package projectstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a new project. The creator is always part of the team.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	if !contains(p.TeamMembers, p.CreatedBy) {
		p.TeamMembers = append(p.TeamMembers, p.CreatedBy)
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Titles maps project ids to titles with one query. Ids with no matching
// project are left out of the map.
func (s *Store) Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var found []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Title string             `bson:"title"`
	}
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	titles := make(map[primitive.ObjectID]string, len(found))
	for _, p := range found {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

// List returns the page of projects matching filter, newest first, along
// with the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, page paging.Page) ([]models.Project, int64, error) {
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
	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update applies a partial $set and returns the fresh document. Returns
// mongo.ErrNoDocuments if the project does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Project, error) {
	set["updated_at"] = time.Now()

	var p models.Project
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the project. Tasks under it are deleted by the caller,
// not here; the two deletes are not transactional.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Search finds projects whose title or description contains q,
// case-insensitively, capped at limit.
func (s *Store) Search(ctx context.Context, scope bson.M, q string, limit int64) ([]models.Project, error) {
	filter := bson.M{
		"$and": bson.A{
			scope,
			bson.M{"$or": bson.A{
				bson.M{"title": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"description": bson.M{"$regex": q, "$options": "i"}},
			}},
		},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
