package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/jobboard/internal/handler"
	"github.com/msomdec/jobboard/internal/repository/sqlite"
	"github.com/msomdec/jobboard/internal/service"
)

type testEnv struct {
	t        *testing.T
	db       *sqlite.DB
	services handler.Services
	srv      *httptest.Server
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServices(t *testing.T, db *sqlite.DB) handler.Services {
	t.Helper()
	const cost = 4
	files := db.FileStore()
	return handler.Services{
		Auth:      service.NewAuthService(db.Users(), files, cost),
		Profile:   service.NewProfileService(db.Users(), cost),
		Media:     service.NewMediaService(db.Users(), files),
		Jobs:      service.NewJobService(db.Jobs(), db.Comments()),
		Admin:     service.NewAdminService(db.Users(), db.Jobs(), files, cost),
		JobCreate: service.NewRateLimiter(service.NewMemoryCounter(), "content", 1, 90*time.Minute),
		DB:        db,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	services := newTestServices(t, db)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, services)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, db: db, services: services, srv: srv}
}

// client is a cookie-carrying API caller. forwardedFor, when set, is sent as
// X-Forwarded-For on every request.
type client struct {
	t            *testing.T
	base         string
	http         *http.Client
	forwardedFor string
}

func (e *testEnv) newClient(forwardedFor string) *client {
	e.t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		e.t.Fatalf("cookie jar: %v", err)
	}
	return &client{t: e.t, base: e.srv.URL, http: &http.Client{Jar: jar}, forwardedFor: forwardedFor}
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", c.forwardedFor)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func (c *client) expect(method, path string, body any, status int) map[string]any {
	c.t.Helper()
	resp, out := c.do(method, path, body)
	if resp.StatusCode != status {
		c.t.Fatalf("%s %s: expected %d, got %d (%v)", method, path, status, resp.StatusCode, out)
	}
	return out
}

func (c *client) signup(email string) {
	c.t.Helper()
	c.expect(http.MethodPost, "/_api/auth/signup", map[string]any{
		"email": email, "password": "password123", "name": "User " + email, "role": "client",
	}, http.StatusOK)
}

func jobBody(title string) map[string]any {
	return map[string]any{
		"title":    title,
		"content":  "Looking for someone to build and maintain a small payments service. Remote friendly, long term work. Apply today.",
		"category": "engineering",
		"type":     "full",
		"tags":     []string{"go"},
	}
}
