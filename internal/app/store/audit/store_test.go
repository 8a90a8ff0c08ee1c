package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/trackhub/internal/app/store/audit"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := audit.New(db)

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	events := []audit.Event{
		{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    &userID,
			IP:        "10.0.0.1",
			Success:   true,
		},
		{
			Category:      audit.CategoryAuth,
			EventType:     audit.EventLoginFailedWrongPassword,
			UserID:        &otherID,
			IP:            "10.0.0.2",
			Success:       false,
			FailureReason: "wrong password",
		},
		{
			Category:  audit.CategoryAdmin,
			EventType: audit.EventProjectDeleted,
			ActorID:   &userID,
			IP:        "10.0.0.1",
			Success:   true,
			Details:   map[string]string{"project_id": primitive.NewObjectID().Hex()},
		},
	}
	for _, ev := range events {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("auth events: got %d, want 2", len(got))
	}
	for _, ev := range got {
		if ev.ID.IsZero() {
			t.Error("event ID was not assigned")
		}
		if ev.Timestamp.IsZero() {
			t.Error("event timestamp was not assigned")
		}
	}

	count, err := store.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventProjectDeleted})
	if err != nil {
		t.Fatalf("CountByFilter: %v", err)
	}
	if count != 1 {
		t.Errorf("project_deleted count: got %d, want 1", count)
	}
}

func TestGetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := audit.New(db)

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	for _, id := range []primitive.ObjectID{userID, userID, otherID} {
		uid := id
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    &uid,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events for user: got %d, want 2", len(got))
	}
	for _, ev := range got {
		if ev.UserID == nil || *ev.UserID != userID {
			t.Errorf("event for wrong user: %+v", ev)
		}
	}
}

func TestGetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := audit.New(db)

	userID := primitive.NewObjectID()
	for _, ev := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, UserID: &userID, Success: false},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedUserNotFound, Success: false},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedRateLimit, Success: false},
	} {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetFailedLogins: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("failed logins: got %d, want 3", len(got))
	}
	for _, ev := range got {
		if ev.Success {
			t.Errorf("successful event returned as failed login: %+v", ev)
		}
	}
}

func TestQueryTimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := audit.New(db)

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()
	for _, ts := range []time.Time{old, recent} {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLogout,
			Timestamp: ts,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	since := time.Now().Add(-time.Hour)
	got, err := store.Query(ctx, audit.QueryFilter{StartTime: &since})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("events since cutoff: got %d, want 1", len(got))
	}
}
