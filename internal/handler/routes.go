package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/msomdec/jobboard/internal/service"
)

// Services bundles what the routes depend on.
type Services struct {
	Auth      *service.AuthService
	Profile   *service.ProfileService
	Media     *service.MediaService
	Jobs      *service.JobService
	Admin     *service.AdminService
	JobCreate *service.RateLimiter
	DB        pinger

	CookieSecure bool
	// StaticDir, when set, is served as a single-page app with index.html
	// as the fallback for unknown paths.
	StaticDir string
}

// RegisterRoutes sets up all HTTP routes on the given mux. Everything under
// /_api passes the origin ban gate first.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authH := NewAuthHandler(s.Auth, s.Media, s.CookieSecure)
	profileH := NewProfileHandler(s.Profile, s.Media)
	jobH := NewJobHandler(s.Jobs)
	adminH := NewAdminHandler(s.Admin)

	session := RequireSession(s.Auth)
	anySession := RequireSessionAllowBanned(s.Auth)
	admin := RequireAdmin()

	api := http.NewServeMux()
	open := func(pattern string, h http.HandlerFunc) { api.Handle(pattern, h) }
	gated := func(pattern string, h http.HandlerFunc, mws ...Middleware) {
		api.Handle(pattern, Chain(h, mws...))
	}
	admins := func(pattern string, h http.HandlerFunc) { gated(pattern, h, session, admin) }

	// Auth
	open("POST /_api/auth/signup", authH.HandleSignup)
	open("POST /_api/auth/signin", authH.HandleSignin)
	gated("GET /_api/auth/user", authH.HandleUser, anySession)
	gated("DELETE /_api/auth/user", authH.HandleDeleteUser, session)
	gated("POST /_api/auth/logout", authH.HandleLogout, anySession)
	admins("PATCH /_api/auth/upload-ad/{adId}", authH.HandleUploadAd)
	open("GET /_api/auth/ad/{adId}", authH.HandleAd)

	// Profile
	gated("PATCH /_api/profile/upload-avatar", profileH.HandleUploadAvatar, session)
	open("GET /_api/profile/avatar/{avatarId}", profileH.HandleAvatar)
	gated("PATCH /_api/profile/info", profileH.HandleInfo, session)
	gated("PATCH /_api/profile/contact", profileH.HandleContact, session)
	gated("PATCH /_api/profile/password", profileH.HandlePassword, session)

	// Jobs
	gated("POST /_api/job/create", jobH.HandleCreate, session, RateLimit(s.JobCreate))
	gated("POST /_api/job/edit/{jobId}", jobH.HandleEdit, session)
	gated("DELETE /_api/job/{jobId}", jobH.HandleDelete, session)
	gated("GET /_api/job", jobH.HandleListOwn, session)
	gated("GET /_api/job/{$}", jobH.HandleListOwn, session)
	gated("GET /_api/job/jobList", jobH.HandleList, session)
	gated("GET /_api/job/{jobId}", jobH.HandleGetOwn, session)
	gated("GET /_api/job/{first}/{second}", jobH.HandleNested, session)
	gated("POST /_api/job/comment", jobH.HandleComment, session)
	gated("POST /_api/job/reaction", jobH.HandleReaction, session)

	// Admin
	admins("GET /_api/admin/user/{userId}", withID("userId", "get user", adminH.HandleGetUser))
	admins("GET /_api/admin/job/{jobId}", withID("jobId", "get job", adminH.HandleGetJob))
	admins("GET /_api/admin/users", adminH.HandleListUsers)
	admins("GET /_api/admin/jobs", adminH.HandleListJobs)
	admins("PATCH /_api/admin/user/{userId}/info", withID("userId", "update user info", adminH.HandleUserInfo))
	admins("PATCH /_api/admin/user/{userId}/contact", withID("userId", "update user contact", adminH.HandleUserContact))
	admins("PATCH /_api/admin/user/{userId}/password", withID("userId", "set user password", adminH.HandleUserPassword))
	admins("PATCH /_api/admin/job/{jobId}", withID("jobId", "edit job", adminH.HandleEditJob))
	admins("DELETE /_api/admin/user/{userId}", withID("userId", "delete user", adminH.HandleDeleteUser))
	admins("DELETE /_api/admin/job/{jobId}", withID("jobId", "delete job", adminH.HandleDeleteJob))
	admins("POST /_api/admin/user/{userId}/ban", withID("userId", "ban user", adminH.HandleBan))
	admins("POST /_api/admin/user/{userId}/unban", withID("userId", "unban user", adminH.HandleUnban))

	mux.Handle("/_api/", BanGate(s.Auth)(api))
	mux.HandleFunc("GET /healthz", HandleHealthz(s.DB))

	if s.StaticDir != "" {
		mux.Handle("/", spaHandler(s.StaticDir))
	}
}

// spaHandler serves files from dir and falls back to index.html for paths
// that do not name a file. It is mounted without a method so that the /_api/
// subtree stays the more specific pattern.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}
		name := path.Clean("/" + r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/"))))
		if (err != nil && errors.Is(err, fs.ErrNotExist)) || (err == nil && info.IsDir() && name != "/") {
			http.ServeFile(w, r, index)
			return
		}
		files.ServeHTTP(w, r)
	})
}
