package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/repository/sqlite"
	"github.com/msomdec/jobboard/internal/service"
)

// Use cost 4 for fast tests.
const testBcryptCost = 4

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	return service.NewAuthService(db.Users(), db.FileStore(), testBcryptCost), db
}

func signup(t *testing.T, auth *service.AuthService, email, ip string) *domain.User {
	t.Helper()
	user, err := auth.Signup(context.Background(), service.SignupInput{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Role:     "freelancer",
		IP:       ip,
	})
	if err != nil {
		t.Fatalf("Signup %s: %v", email, err)
	}
	return user
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != field {
		t.Fatalf("expected field %q, got %q (%s)", field, verr.Field, verr.Message)
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user := signup(t, auth, "new@example.com", "203.0.113.5")
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.SessionToken == "" {
		t.Fatal("expected session token to be issued")
	}

	stored, err := db.Users().GetBySessionToken(ctx, user.SessionToken)
	if err != nil {
		t.Fatalf("GetBySessionToken: %v", err)
	}
	if stored.IP != "203.0.113.5" {
		t.Fatalf("expected stored IP 203.0.113.5, got %q", stored.IP)
	}
	if stored.Role != domain.RoleFreelancer {
		t.Fatalf("expected role freelancer, got %s", stored.Role)
	}
	if stored.PasswordHash == "password123" {
		t.Fatal("password stored in plain text")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	signup(t, auth, "a@x.io", "")

	_, err := auth.Signup(context.Background(), service.SignupInput{
		Email: "a@x.io", Password: "longenough1", Name: "A", Role: "freelancer",
	})
	requireField(t, err, "email")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	auth, _ := newTestAuthService(t)

	tests := []struct {
		name  string
		in    service.SignupInput
		field string
	}{
		{"missing name", service.SignupInput{Email: "a@x.io", Password: "password123", Role: "client"}, "email"},
		{"bad role", service.SignupInput{Email: "a@x.io", Password: "password123", Name: "A", Role: "admin"}, "password_confirmation"},
		{"short password", service.SignupInput{Email: "a@x.io", Password: "short", Name: "A", Role: "client"}, "password_confirmation"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Signup(context.Background(), tc.in)
			requireField(t, err, tc.field)
		})
	}
}

func TestAuthService_Signup_UniqueTokens(t *testing.T) {
	auth, _ := newTestAuthService(t)
	a := signup(t, auth, "a@example.com", "")
	b := signup(t, auth, "b@example.com", "")
	if a.SessionToken == b.SessionToken {
		t.Fatal("expected distinct session tokens")
	}
}

func TestAuthService_Signin(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()
	created := signup(t, auth, "login@example.com", "")

	user, err := auth.Signin(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Signin: %v", err)
	}
	if user.SessionToken != created.SessionToken {
		t.Fatal("signin must return the token issued at signup")
	}

	_, err = auth.Signin(ctx, "login@example.com", "wrongpassword")
	requireField(t, err, "email")

	_, err = auth.Signin(ctx, "nobody@example.com", "password123")
	requireField(t, err, "email")
}

func TestAuthService_Authenticate(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	user := signup(t, auth, "session@example.com", "")

	got, err := auth.Authenticate(ctx, user.SessionToken, false)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, got.ID)
	}

	if _, err := auth.Authenticate(ctx, "", false); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("empty token: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "forged", false); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown token: expected ErrUnauthenticated, got %v", err)
	}

	if err := db.Users().SetBanned(ctx, user.ID, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	if _, err := auth.Authenticate(ctx, user.SessionToken, false); !errors.Is(err, domain.ErrBanned) {
		t.Fatalf("banned user: expected ErrBanned, got %v", err)
	}
	got, err = auth.Authenticate(ctx, user.SessionToken, true)
	if err != nil {
		t.Fatalf("Authenticate allowBanned: %v", err)
	}
	if !got.Banned {
		t.Fatal("expected banned flag on resolved user")
	}
}

func TestAuthService_CheckOrigin(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	user := signup(t, auth, "origin@example.com", "198.51.100.7")

	if err := auth.CheckOrigin(ctx, "198.51.100.7"); err != nil {
		t.Fatalf("unbanned origin: %v", err)
	}

	if err := db.Users().SetBanned(ctx, user.ID, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}

	if err := auth.CheckOrigin(ctx, "198.51.100.7, 10.0.0.1"); !errors.Is(err, domain.ErrBanned) {
		t.Fatalf("banned origin: expected ErrBanned, got %v", err)
	}
	if err := auth.CheckOrigin(ctx, "198.51.100.70"); err != nil {
		t.Fatalf("different origin: %v", err)
	}
	if err := auth.CheckOrigin(ctx, "127.0.0.1"); err != nil {
		t.Fatalf("loopback: %v", err)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	user := signup(t, auth, "gone@example.com", "")

	media := service.NewMediaService(db.Users(), db.FileStore())
	avatar, err := media.UploadAvatar(ctx, user.ID, "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	user.Avatar = avatar

	err = auth.DeleteAccount(ctx, user, "wrongpassword")
	requireField(t, err, "password")

	if err := auth.DeleteAccount(ctx, user, "password123"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := db.Users().GetByID(ctx, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected user removed, got %v", err)
	}
	if _, err := media.OpenAvatar(ctx, avatar); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected avatar removed, got %v", err)
	}
}

func TestAuthService_PromoteAdmin(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	user := signup(t, auth, "boss@example.com", "")

	if err := auth.PromoteAdmin(ctx, "boss@example.com"); err != nil {
		t.Fatalf("PromoteAdmin: %v", err)
	}
	got, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Admin {
		t.Fatal("expected admin flag")
	}

	if err := auth.PromoteAdmin(ctx, "missing@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}
