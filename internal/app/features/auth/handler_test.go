package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/trackhub/internal/app/features/auth"
	sysauth "github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/mailer"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestHandler(t *testing.T) (*auth.Handler, *mongo.Database) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h := auth.NewHandler(db, mailer.New("", 0, "", "", "noreply@test", "TrackHub", zap.NewNop()), zap.NewNop())
	h.JWTSecret = []byte("test-secret")
	h.TokenTTL = time.Hour
	h.BcryptCost = bcrypt.MinCost
	h.ResetTTL = time.Hour
	h.BaseURL = "http://localhost:8080"
	h.SiteName = "TrackHub"
	return h, db
}

func TestSignupAndLogin(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := testutil.NewJSONRequest(t, "POST", "/auth/signup", map[string]string{
		"email":    "New@Example.com",
		"password": "hunter2hunter2",
		"role":     "manager",
	})
	h.HandleSignup(rec, req)

	if rec.Code != 201 {
		t.Fatalf("signup status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	testutil.DecodeJSON(t, rec, &session)
	if session.Token == "" {
		t.Fatal("signup should return a token")
	}
	claims, ok := sysauth.VerifyToken(h.JWTSecret, session.Token)
	if !ok || claims.Role != models.RoleManager {
		t.Fatalf("signup token does not verify: %+v", claims)
	}
	if session.User.Email != "new@example.com" {
		t.Errorf("email not normalized: %q", session.User.Email)
	}

	// Duplicate email conflicts.
	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, "POST", "/auth/signup", map[string]string{
		"email":    "new@example.com",
		"password": "hunter2hunter2",
		"role":     "member",
	})
	h.HandleSignup(rec, req)
	if rec.Code != 409 {
		t.Fatalf("duplicate signup status = %d, want 409", rec.Code)
	}

	// Wrong password is a generic 401.
	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "new@example.com",
		"password": "wrong-password",
	})
	h.HandleLogin(rec, req)
	if rec.Code != 401 {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "NEW@example.com",
		"password": "hunter2hunter2",
	})
	h.HandleLogin(rec, req)
	if rec.Code != 200 {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	sawCookie := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sysauth.TokenCookie && c.Value != "" {
			sawCookie = true
		}
	}
	if !sawCookie {
		t.Error("login should set the token cookie")
	}
}

func TestSignupValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "hunter2hunter2", "role": "member"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "role": "member"}},
		{"bad role", map[string]string{"email": "a@b.com", "password": "hunter2hunter2", "role": "owner"}},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.HandleSignup(rec, testutil.NewJSONRequest(t, "POST", "/auth/signup", tc.body))
		if rec.Code != 400 {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestForgotPasswordDoesNotEnumerate(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "known@example.com", models.RoleMember)

	var bodies [2]string
	for i, email := range []string{"known@example.com", "unknown@example.com"} {
		rec := httptest.NewRecorder()
		req := testutil.NewJSONRequest(t, "POST", "/auth/forgot-password", map[string]string{"email": email})
		h.HandleForgotPassword(rec, req)
		if rec.Code != 200 {
			t.Fatalf("forgot-password(%s) status = %d, want 200", email, rec.Code)
		}
		bodies[i] = rec.Body.String()
	}
	if bodies[0] != bodies[1] {
		t.Errorf("responses differ between known and unknown email:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestResetPasswordFlow(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "reset@example.com", models.RoleMember)

	// Plant a token the way HandleForgotPassword would.
	const token = "a-raw-reset-token"
	if err := h.Users.SetResetToken(ctx, u.ID, auth.TokenDigest(token), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HandleVerifyResetToken(rec, testutil.NewRequest("GET", "/auth/verify-reset-token?token="+token))
	if rec.Code != 200 {
		t.Fatalf("verify status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req := testutil.NewJSONRequest(t, "POST", "/auth/reset-password", map[string]string{
		"token":    token,
		"password": "brand-new-password",
	})
	h.HandleResetPassword(rec, req)
	if rec.Code != 200 {
		t.Fatalf("reset status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// The token is single-use.
	rec = httptest.NewRecorder()
	h.HandleVerifyResetToken(rec, testutil.NewRequest("GET", "/auth/verify-reset-token?token="+token))
	if rec.Code != 400 {
		t.Fatalf("second verify status = %d, want 400", rec.Code)
	}

	// And the new password works.
	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "reset@example.com",
		"password": "brand-new-password",
	})
	h.HandleLogin(rec, req)
	if rec.Code != 200 {
		t.Fatalf("login after reset status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyResetTokenUnknown(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleVerifyResetToken(rec, testutil.NewRequest("GET", "/auth/verify-reset-token?token=nope"))
	if rec.Code != 400 {
		t.Fatalf("verify unknown token status = %d, want 400", rec.Code)
	}
}
