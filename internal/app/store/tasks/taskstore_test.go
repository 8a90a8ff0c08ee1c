package taskstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/trackhub/internal/app/policy/taskpolicy"
	taskstore "github.com/dalemusser/trackhub/internal/app/store/tasks"
	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	p := fixtures.CreateProject(ctx, "P", mgr.ID)

	created, err := store.Create(ctx, models.Task{
		Title:     "Write docs",
		ProjectID: p.ID,
		CreatedBy: mgr.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.StatusTodo || created.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s, want todo/medium", created.Status, created.Priority)
	}
	if created.Comments == nil || created.TimeLogs == nil {
		t.Error("embedded slices should be initialized, not nil")
	}

	if _, err := store.Create(ctx, models.Task{Title: "x", Status: "blocked", ProjectID: p.ID}); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestStore_List_MemberScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	member := fixtures.CreateUser(ctx, "mem@example.com", models.RoleMember)
	p := fixtures.CreateProject(ctx, "P", mgr.ID, member.ID)

	mine := fixtures.CreateTask(ctx, p.ID, mgr.ID, member.ID)
	fixtures.CreateTask(ctx, p.ID, mgr.ID) // unassigned

	page := paging.Page{Page: 1, Limit: 10}

	got, total, err := store.List(ctx, taskpolicy.ListFilter(models.RoleMember, member.ID, nil), page)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("member sees %d tasks (total %d), want only the assigned one", len(got), total)
	}

	// Inside a project context the member sees all of the project's tasks.
	got, total, err = store.List(ctx, taskpolicy.ListFilter(models.RoleMember, member.ID, &p.ID), page)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("member sees %d project tasks (total %d), want 2", len(got), total)
	}
}

func TestStore_Assign_ReplacesAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	a := fixtures.CreateUser(ctx, "a@example.com", models.RoleMember)
	b := fixtures.CreateUser(ctx, "b@example.com", models.RoleMember)
	p := fixtures.CreateProject(ctx, "P", mgr.ID)
	task := fixtures.CreateTask(ctx, p.ID, mgr.ID, a.ID)

	updated, err := store.Assign(ctx, task.ID, []primitive.ObjectID{b.ID}, mgr.ID)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(updated.AssignedTo) != 1 || updated.AssignedTo[0] != b.ID {
		t.Fatalf("assignees = %v, want only b", updated.AssignedTo)
	}
	if updated.LastAssignedBy == nil || *updated.LastAssignedBy != mgr.ID {
		t.Fatal("last_assigned_by should record the assigner")
	}

	// Clearing assignment leaves an empty set, not the old one.
	updated, err = store.Assign(ctx, task.ID, nil, mgr.ID)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(updated.AssignedTo) != 0 {
		t.Fatalf("assignees = %v, want empty", updated.AssignedTo)
	}
}

func TestStore_CommentLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	p := fixtures.CreateProject(ctx, "P", mgr.ID)
	task := fixtures.CreateTask(ctx, p.ID, mgr.ID)

	c, err := store.AddComment(ctx, task.ID, models.Comment{
		Author: models.Author{UserID: mgr.ID},
		Text:   "first",
	})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if c.ID.IsZero() || c.Timestamp.IsZero() {
		t.Fatal("expected comment id and timestamp to be set")
	}

	if err := store.UpdateComment(ctx, task.ID, c.ID, "first, edited"); err != nil {
		t.Fatalf("UpdateComment failed: %v", err)
	}
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	edited := got.CommentByID(c.ID)
	if edited == nil {
		t.Fatal("comment disappeared after edit")
	}
	if edited.Text != "first, edited" || !edited.Edited || edited.EditedAt == nil {
		t.Errorf("edit not recorded: %+v", edited)
	}
	// Mongo truncates times to milliseconds; compare at second precision.
	if edited.Timestamp.Unix() != c.Timestamp.Unix() {
		t.Error("original timestamp should be preserved on edit")
	}

	if err := store.DeleteComment(ctx, task.ID, c.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if err := store.DeleteComment(ctx, task.ID, c.ID); !errors.Is(err, taskstore.ErrNoComment) {
		t.Fatalf("expected ErrNoComment on second delete, got %v", err)
	}
}

func TestStore_ToggleReaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	p := fixtures.CreateProject(ctx, "P", mgr.ID)
	task := fixtures.CreateTask(ctx, p.ID, mgr.ID)

	c, err := store.AddComment(ctx, task.ID, models.Comment{
		Author: models.Author{UserID: mgr.ID},
		Text:   "react to me",
	})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	reactions, err := store.ToggleReaction(ctx, task.ID, c.ID, mgr.ID, "👍")
	if err != nil {
		t.Fatalf("ToggleReaction failed: %v", err)
	}
	if len(reactions) != 1 {
		t.Fatalf("reactions = %v, want one", reactions)
	}

	// Toggling the same pair again removes it.
	reactions, err = store.ToggleReaction(ctx, task.ID, c.ID, mgr.ID, "👍")
	if err != nil {
		t.Fatalf("ToggleReaction failed: %v", err)
	}
	if len(reactions) != 0 {
		t.Fatalf("reactions = %v, want empty after second toggle", reactions)
	}

	if _, err := store.ToggleReaction(ctx, task.ID, primitive.NewObjectID(), mgr.ID, "👍"); !errors.Is(err, taskstore.ErrNoComment) {
		t.Fatalf("expected ErrNoComment for unknown comment, got %v", err)
	}
}

func TestStore_AppendTimeLog_Accumulates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	member := fixtures.CreateUser(ctx, "mem@example.com", models.RoleMember)
	p := fixtures.CreateProject(ctx, "P", mgr.ID, member.ID)
	task := fixtures.CreateTask(ctx, p.ID, mgr.ID, member.ID)

	if _, err := store.AppendTimeLog(ctx, task.ID, models.TimeLog{UserID: member.ID, Hours: 1.5}); err != nil {
		t.Fatalf("AppendTimeLog failed: %v", err)
	}
	updated, err := store.AppendTimeLog(ctx, task.ID, models.TimeLog{UserID: member.ID, Hours: 0.5})
	if err != nil {
		t.Fatalf("AppendTimeLog failed: %v", err)
	}
	if len(updated.TimeLogs) != 2 {
		t.Fatalf("got %d time log entries, want 2", len(updated.TimeLogs))
	}
	if total := updated.TotalHours(); total != 2.0 {
		t.Fatalf("TotalHours = %v, want 2.0", total)
	}
}

func TestStore_Search_Tags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	p := fixtures.CreateProject(ctx, "P", mgr.ID)
	task := fixtures.CreateTask(ctx, p.ID, mgr.ID)

	if _, err := store.Update(ctx, task.ID, bson.M{"tags": []string{"backend", "urgent"}}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	scope := taskpolicy.ListFilter(models.RoleManager, mgr.ID, nil)
	got, err := store.Search(ctx, scope, "URGENT", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("Search = %v, want the tagged task", got)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments for unknown task, got %v", err)
	}
}
