package projects_test

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/features/projects"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
)

func TestHandleList_ScopesByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "admin@example.com", models.RoleAdmin)
	member := fixtures.CreateUser(ctx, "member@example.com", models.RoleMember)
	fixtures.CreateProject(ctx, "Mine", admin.ID, member.ID)
	fixtures.CreateProject(ctx, "Mine Too", admin.ID)

	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/projects"), testutil.AsUser(member))
	h.HandleList(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Projects   []models.Project `json:"projects"`
		Total      int64            `json:"total"`
		TotalPages int64            `json:"totalPages"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Total != 1 || len(resp.Projects) != 1 || resp.Projects[0].Title != "Mine" {
		t.Fatalf("member sees %+v, want only the project they belong to", resp)
	}
	if resp.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", resp.TotalPages)
	}
}

func TestHandleCreate_ValidatesTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "admin@example.com", models.RoleAdmin)
	member := fixtures.CreateUser(ctx, "member@example.com", models.RoleMember)

	// Unknown team member id fails the whole request.
	rec := httptest.NewRecorder()
	req := testutil.NewJSONRequest(t, "POST", "/projects", map[string]any{
		"title":        "Bad Team",
		"team_members": []string{"ffffffffffffffffffffffff"},
	})
	h.HandleCreate(rec, testutil.WithUser(req, testutil.AsUser(admin)))
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, "POST", "/projects", map[string]any{
		"title":        "Launch",
		"description":  "<p>ok</p><script>alert(1)</script>",
		"team_members": []string{member.ID.Hex()},
	})
	h.HandleCreate(rec, testutil.WithUser(req, testutil.AsUser(admin)))
	if rec.Code != 201 {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Project
	testutil.DecodeJSON(t, rec, &created)
	if len(created.TeamMembers) != 2 {
		t.Errorf("team = %v, want member plus auto-added creator", created.TeamMembers)
	}
	if created.Description != "<p>ok</p>" {
		t.Errorf("description not sanitized: %q", created.Description)
	}
}

func TestHandleGet_ForbiddenForOtherAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner@example.com", models.RoleAdmin)
	other := fixtures.CreateUser(ctx, "other@example.com", models.RoleAdmin)
	p := fixtures.CreateProject(ctx, "Private", owner.ID)

	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/projects/"+p.ID.Hex()), testutil.AsUser(other))
	h.HandleGet(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
	if rec.Code != 403 {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}

	// And a bad id is a 400, not a 404.
	rec = httptest.NewRecorder()
	req = testutil.WithUser(testutil.NewRequest("GET", "/projects/zzz"), testutil.AsUser(other))
	h.HandleGet(rec, testutil.WithChiURLParam(req, "id", "zzz"))
	if rec.Code != 400 {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
}

func TestHandleDelete_RemovesTasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "admin@example.com", models.RoleAdmin)
	p := fixtures.CreateProject(ctx, "Doomed", admin.ID)
	task := fixtures.CreateTask(ctx, p.ID, admin.ID)

	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("DELETE", "/projects/"+p.ID.Hex()), testutil.AsUser(admin))
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if _, err := h.Tasks.GetByID(ctx, task.ID); err == nil {
		t.Fatal("tasks under a deleted project should be removed")
	}
}
