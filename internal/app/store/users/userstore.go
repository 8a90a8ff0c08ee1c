package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/trackhub/internal/app/system/normalize"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"manager"|"member"`)
)

// UnknownEmailError reports an assignee email that matched no user. The
// failing email is carried so handlers can name it in the response.
type UnknownEmailError struct {
	Email string
}

func (e *UnknownEmailError) Error() string {
	return fmt.Sprintf("no user with email %s", e.Email)
}

// UnknownIDError reports an assignee id that matched no user.
type UnknownIDError struct {
	ID primitive.ObjectID
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("no user with id %s", e.ID.Hex())
}

// Create inserts a new user after normalizing and validating fields. The
// caller supplies an already-hashed password.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)

	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ResolveEmails maps assignee emails to user ids. The whole call fails
// with an UnknownEmailError naming the first email that matches no user;
// a partial assignment is never returned.
func (s *Store) ResolveEmails(ctx context.Context, emails []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(emails))
	for _, e := range emails {
		u, err := s.GetByEmail(ctx, e)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, &UnknownEmailError{Email: normalize.Email(e)}
			}
			return nil, err
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// VerifyIDs checks that every id references an existing user. The whole
// call fails with an UnknownIDError naming the first id that matches no
// user; nothing is ever partially accepted.
func (s *Store) VerifyIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return err
	}
	var found []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &found); err != nil {
		return err
	}
	seen := make(map[primitive.ObjectID]bool, len(found))
	for _, u := range found {
		seen[u.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return &UnknownIDError{ID: id}
		}
	}
	return nil
}

// Refs loads display shapes for the given ids. Ids with no matching user
// are skipped; order follows the input.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []models.UserRef
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserRef, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	refs := make([]models.UserRef, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			refs = append(refs, r)
		}
	}
	return refs, nil
}

// ListByRoles returns users holding any of the given roles, sorted by
// email for stable picker output.
func (s *Store) ListByRoles(ctx context.Context, roles ...string) ([]models.UserRef, error) {
	filter := bson.M{"role": bson.M{"$in": roles}}
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var refs []models.UserRef
	if err := cur.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// SetResetToken stores the sha256 digest of a freshly issued password
// reset token along with its expiry, replacing any previous one.
func (s *Store) SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expiry time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reset_token":        digest,
		"reset_token_expiry": expiry,
		"updated_at":         time.Now(),
	}})
	return err
}

// GetByResetToken finds the user holding an unexpired reset token with
// the given digest. Returns mongo.ErrNoDocuments for unknown or expired
// tokens; callers cannot distinguish the two, which is intentional.
func (s *Store) GetByResetToken(ctx context.Context, digest string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"reset_token":        digest,
		"reset_token_expiry": bson.M{"$gt": time.Now()},
	}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetRole changes a user's role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if !models.ValidRole(role) {
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"role":       role,
			"updated_at": time.Now(),
		},
	})
	return err
}

// UpdatePassword replaces the password hash and clears any outstanding
// reset token.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"password_hash": hash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"reset_token":        "",
			"reset_token_expiry": "",
		},
	})
	return err
}
