package search_test

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/features/search"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
)

type combined struct {
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
}

func TestHandleCombined_EmptyQueryShortCircuits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())

	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/search?q="), testutil.AdminUser())
	h.HandleCombined(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp combined
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Projects) != 0 || len(resp.Tasks) != 0 {
		t.Fatalf("empty query should return empty results: %+v", resp)
	}
}

func TestHandleCombined_CaseInsensitiveAndScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	member := fixtures.CreateUser(ctx, "mem@example.com", models.RoleMember)
	p := fixtures.CreateProject(ctx, "Deploy Pipeline", mgr.ID, member.ID)
	fixtures.CreateTask(ctx, p.ID, mgr.ID, member.ID) // title "fixture task"

	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/search?q=DEPLOY"), testutil.AsUser(mgr))
	h.HandleCombined(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp combined
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Projects) != 1 || resp.Projects[0].Title != "Deploy Pipeline" {
		t.Fatalf("projects = %+v, want the pipeline project", resp.Projects)
	}

	// Tasks match on title too, and member scope only covers assigned work.
	rec = httptest.NewRecorder()
	req = testutil.WithUser(testutil.NewRequest("GET", "/search/tasks?q=fixture"), testutil.AsUser(member))
	h.HandleTasks(rec, req)
	var taskResp struct {
		Tasks []models.Task `json:"tasks"`
	}
	testutil.DecodeJSON(t, rec, &taskResp)
	if len(taskResp.Tasks) != 1 {
		t.Fatalf("member task search = %+v, want the assigned task", taskResp.Tasks)
	}

	// Admins search across every project, including ones they did not
	// create, even though their project list stays scoped to their own.
	rec = httptest.NewRecorder()
	req = testutil.WithUser(testutil.NewRequest("GET", "/search/projects?q=pipeline"), testutil.AdminUser())
	h.HandleProjects(rec, req)
	var projResp struct {
		Projects []models.Project `json:"projects"`
	}
	testutil.DecodeJSON(t, rec, &projResp)
	if len(projResp.Projects) != 1 || projResp.Projects[0].Title != "Deploy Pipeline" {
		t.Fatalf("admin project search = %+v, want the manager's project", projResp.Projects)
	}

	// A regex metacharacter is treated literally, not as a pattern.
	rec = httptest.NewRecorder()
	req = testutil.WithUser(testutil.NewRequest("GET", "/search?q=.*"), testutil.AsUser(mgr))
	h.HandleCombined(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Projects) != 0 {
		t.Fatalf("metacharacters should not match everything: %+v", resp.Projects)
	}
}
