package handler

import (
	"net/http"

	"github.com/msomdec/jobboard/internal/service"
)

// AdminHandler serves moderation endpoints. Every route sits behind
// RequireSession and RequireAdmin.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// withID parses the named path id and hands it to fn.
func withID(name, op string, fn func(w http.ResponseWriter, r *http.Request, id int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, name)
		if err != nil {
			writeServiceError(w, r, op, err)
			return
		}
		fn(w, r, id)
	}
}

func (h *AdminHandler) HandleGetUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.admin.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

func (h *AdminHandler) HandleGetJob(w http.ResponseWriter, r *http.Request, id int64) {
	job, err := h.admin.GetJob(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get job", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": toJobDTO(job)})
}

// GET /_api/admin/users?page=
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.admin.ListUsers(r.Context(), queryPage(r))
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users":       toUserDTOs(page.Items),
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

// GET /_api/admin/jobs?page=
func (h *AdminHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	page, err := h.admin.ListJobs(r.Context(), queryPage(r))
	if err != nil {
		writeServiceError(w, r, "list jobs", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":        toJobDTOs(page.Items),
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

func (h *AdminHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request, id int64) {
	var req infoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode info", err)
		return
	}
	if err := h.admin.UpdateUserInfo(r.Context(), id, req.toInput()); err != nil {
		writeServiceError(w, r, "update user info", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleUserContact(w http.ResponseWriter, r *http.Request, id int64) {
	var req contactRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode contact", err)
		return
	}
	if err := h.admin.UpdateUserContact(r.Context(), id, req.toDomain()); err != nil {
		writeServiceError(w, r, "update user contact", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleUserPassword(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		New string `json:"update_password_password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode password", err)
		return
	}
	if err := h.admin.SetUserPassword(r.Context(), id, req.New); err != nil {
		writeServiceError(w, r, "set user password", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleBan(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.admin.Ban(r.Context(), id); err != nil {
		writeServiceError(w, r, "ban user", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleUnban(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.admin.Unban(r.Context(), id); err != nil {
		writeServiceError(w, r, "unban user", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleEditJob(w http.ResponseWriter, r *http.Request, id int64) {
	var req jobRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode job", err)
		return
	}
	if err := h.admin.EditJob(r.Context(), id, req.toInput()); err != nil {
		writeServiceError(w, r, "edit job", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AdminHandler) HandleDeleteJob(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.admin.DeleteJob(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete job", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
