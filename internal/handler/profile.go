package handler

import (
	"net/http"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/service"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profile *service.ProfileService
	media   *service.MediaService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profile *service.ProfileService, media *service.MediaService) *ProfileHandler {
	return &ProfileHandler{profile: profile, media: media}
}

type contactRequest struct {
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Telegram string `json:"telegram"`
	WhatsApp string `json:"whatsapp"`
}

func (c contactRequest) toDomain() domain.Contact {
	return domain.Contact{Country: c.Country, Phone: c.Phone, Telegram: c.Telegram, WhatsApp: c.WhatsApp}
}

type infoRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Bio   string `json:"bio"`
}

func (i infoRequest) toInput() service.InfoInput {
	return service.InfoInput{Name: i.Name, Email: i.Email, Bio: i.Bio}
}

// HandleUploadAvatar replaces the caller's avatar.
// PATCH /_api/profile/upload-avatar
// Response: {"avatar": "<id>"}
func (h *ProfileHandler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	contentType, data, err := readImage(w, r, "avatar")
	if err != nil {
		writeServiceError(w, r, "read avatar upload", err)
		return
	}

	user := UserFromContext(r.Context())
	id, err := h.media.UploadAvatar(r.Context(), user.ID, contentType, data)
	if err != nil {
		writeServiceError(w, r, "upload avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar": id})
}

// HandleAvatar streams an avatar by id.
// GET /_api/profile/avatar/{avatarId}
func (h *ProfileHandler) HandleAvatar(w http.ResponseWriter, r *http.Request) {
	rc, err := h.media.OpenAvatar(r.Context(), r.PathValue("avatarId"))
	if err != nil {
		writeServiceError(w, r, "open avatar", err)
		return
	}
	serveImage(w, r, rc)
}

// PATCH /_api/profile/info
func (h *ProfileHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	var req infoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode info", err)
		return
	}
	if err := h.profile.UpdateInfo(r.Context(), UserFromContext(r.Context()).ID, req.toInput()); err != nil {
		writeServiceError(w, r, "update info", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PATCH /_api/profile/contact
func (h *ProfileHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode contact", err)
		return
	}
	if err := h.profile.UpdateContact(r.Context(), UserFromContext(r.Context()).ID, req.toDomain()); err != nil {
		writeServiceError(w, r, "update contact", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PATCH /_api/profile/password
func (h *ProfileHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current_password"`
		New     string `json:"update_password_password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode password", err)
		return
	}
	if err := h.profile.ChangePassword(r.Context(), UserFromContext(r.Context()), req.Current, req.New); err != nil {
		writeServiceError(w, r, "change password", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
