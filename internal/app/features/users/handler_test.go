package users_test

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/features/users"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
)

func TestHandleList_PickerByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "admin@example.com", models.RoleAdmin)
	fixtures.CreateUser(ctx, "mgr@example.com", models.RoleManager)
	fixtures.CreateUser(ctx, "mem@example.com", models.RoleMember)

	list := func(u testutil.TestUser) (*httptest.ResponseRecorder, []models.UserRef) {
		rec := httptest.NewRecorder()
		h.HandleList(rec, testutil.WithUser(testutil.NewRequest("GET", "/users"), u))
		var resp struct {
			Users []models.UserRef `json:"users"`
		}
		if rec.Code == 200 {
			testutil.DecodeJSON(t, rec, &resp)
		}
		return rec, resp.Users
	}

	rec, got := list(testutil.ManagerUser())
	if rec.Code != 200 || len(got) != 1 || got[0].Role != models.RoleMember {
		t.Fatalf("manager picker = %d %+v, want just members", rec.Code, got)
	}

	rec, got = list(testutil.AdminUser())
	if rec.Code != 200 || len(got) != 2 {
		t.Fatalf("admin picker = %d %+v, want managers and members", rec.Code, got)
	}
	for _, u := range got {
		if u.Role == models.RoleAdmin {
			t.Errorf("admins should not appear in the picker: %+v", u)
		}
	}

	rec, _ = list(testutil.MemberUser())
	if rec.Code != 403 {
		t.Fatalf("member picker status = %d, want 403", rec.Code)
	}
}
