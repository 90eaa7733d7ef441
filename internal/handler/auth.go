package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/jobboard/internal/service"
)

const (
	sessionTTL  = 24 * time.Hour
	rememberTTL = 240 * time.Hour
)

// AuthHandler handles signup, signin and account-level requests.
type AuthHandler struct {
	auth         *service.AuthService
	media        *service.MediaService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, media *service.MediaService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, media: media, cookieSecure: cookieSecure}
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, h.sessionCookie(token, time.Now().Add(ttl)))
}

func (h *AuthHandler) clearSession(w http.ResponseWriter) {
	c := h.sessionCookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	// Browsers drop SameSite=None cookies that are not Secure.
	sameSite := http.SameSiteNoneMode
	if !h.cookieSecure {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: sameSite,
	}
}

// HandleSignup registers an account and starts a session.
// POST /_api/auth/signup
// Request:  {"email":"...","password":"...","name":"...","role":"freelancer|client"}
// Response: {"user": {...}}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode signup", err)
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		IP:       service.OriginIPv4(originAddr(r)),
	})
	if err != nil {
		writeServiceError(w, r, "signup user", err)
		return
	}

	h.setSession(w, user.SessionToken, sessionTTL)
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleSignin checks credentials and sets the session cookie.
// POST /_api/auth/signin
// Request:  {"email":"...","password":"...","remember":true}
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode signin", err)
		return
	}

	user, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "signin user", err)
		return
	}

	ttl := sessionTTL
	if req.Remember {
		ttl = rememberTTL
	}
	h.setSession(w, user.SessionToken, ttl)
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleUser returns the caller, banned or not.
// GET /_api/auth/user
func (h *AuthHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserDTO(UserFromContext(r.Context())))
}

// HandleDeleteUser removes the caller's account after a password check.
// DELETE /_api/auth/user
// Request:  {"password":"..."}
func (h *AuthHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode delete user", err)
		return
	}

	if err := h.auth.DeleteAccount(r.Context(), UserFromContext(r.Context()), req.Password); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}

	h.clearSession(w)
	w.WriteHeader(http.StatusOK)
}

// HandleLogout clears the session cookie. The token itself stays valid.
// POST /_api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	w.WriteHeader(http.StatusOK)
}

// HandleUploadAd replaces the image shown for an ad slot.
// PATCH /_api/auth/upload-ad/{adId}
func (h *AuthHandler) HandleUploadAd(w http.ResponseWriter, r *http.Request) {
	contentType, data, err := readImage(w, r, "ad")
	if err != nil {
		writeServiceError(w, r, "read ad upload", err)
		return
	}

	if err := h.media.UploadAd(r.Context(), r.PathValue("adId"), contentType, data); err != nil {
		writeServiceError(w, r, "upload ad", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleAd streams an ad image.
// GET /_api/auth/ad/{adId}
func (h *AuthHandler) HandleAd(w http.ResponseWriter, r *http.Request) {
	rc, err := h.media.OpenAd(r.Context(), r.PathValue("adId"))
	if err != nil {
		writeServiceError(w, r, "open ad", err)
		return
	}
	serveImage(w, r, rc)
}
