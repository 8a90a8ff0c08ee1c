package bootstrap

import (
	"testing"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{TrackHubMongoDatabase: db}

	err := ensureAdmin(ctx, deps, "admin@test.com", "initial-password", bcrypt.MinCost, testLogger())
	if err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("initial-password")); err != nil {
		t.Error("stored hash does not match the initial password")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateUser(ctx, "existing@test.com", models.RoleMember)

	deps := DBDeps{TrackHubMongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "existing@test.com", "", bcrypt.MinCost, testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected promotion to %q, got %q", models.RoleAdmin, user.Role)
	}
	// Promotion must not touch the existing password hash.
	if user.PasswordHash != existing.PasswordHash {
		t.Error("password hash changed during promotion")
	}
}

func TestEnsureAdmin_IdempotentForExistingAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "admin@test.com", models.RoleAdmin)

	deps := DBDeps{TrackHubMongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "admin@test.com", "", bcrypt.MinCost, testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "admin@test.com"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 admin user, got %d", n)
	}
}

func TestEnsureAdmin_RequiresPasswordForNewAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{TrackHubMongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "missing@test.com", "", bcrypt.MinCost, testLogger()); err == nil {
		t.Fatal("expected error when creating admin without a password")
	}
}
