package handler

import (
	"net/http"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/service"
)

// JobHandler serves job postings, comments and reactions.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Tags     []string `json:"tags"`
}

func (j jobRequest) toInput() service.JobInput {
	return service.JobInput{Title: j.Title, Content: j.Content, Category: j.Category, Type: j.Type, Tags: j.Tags}
}

// HandleCreate posts a new job.
// POST /_api/job/create
// Response: {"job": <id>}
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode job", err)
		return
	}

	job, err := h.jobs.Create(r.Context(), UserFromContext(r.Context()).ID, req.toInput())
	if err != nil {
		writeServiceError(w, r, "create job", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"job": job.ID})
}

// HandleEdit rewrites one of the caller's jobs.
// POST /_api/job/edit/{jobId}
func (h *JobHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeServiceError(w, r, "parse job id", err)
		return
	}
	var req jobRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode job", err)
		return
	}

	if err := h.jobs.Edit(r.Context(), UserFromContext(r.Context()).ID, jobID, req.toInput()); err != nil {
		writeServiceError(w, r, "edit job", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleDelete removes one of the caller's jobs.
// DELETE /_api/job/{jobId}
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeServiceError(w, r, "parse job id", err)
		return
	}
	if err := h.jobs.Delete(r.Context(), UserFromContext(r.Context()).ID, jobID); err != nil {
		writeServiceError(w, r, "delete job", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleListOwn returns the caller's jobs.
// GET /_api/job/
func (h *JobHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListOwn(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		writeServiceError(w, r, "list own jobs", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": toJobDTOs(jobs)})
}

// HandleList returns a page of the job board.
// GET /_api/job/jobList?page=&category=&tag=&jobtype=&filter_date=oldest
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.JobFilter{
		Category:    q.Get("category"),
		Tag:         q.Get("tag"),
		Type:        domain.JobType(q.Get("jobtype")),
		OldestFirst: q.Get("filter_date") == "oldest",
	}

	page, err := h.jobs.List(r.Context(), filter, queryPage(r))
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

// HandleGetOwn returns one of the caller's jobs.
// GET /_api/job/{jobId}
func (h *JobHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeServiceError(w, r, "parse job id", err)
		return
	}
	job, err := h.jobs.GetOwn(r.Context(), UserFromContext(r.Context()).ID, jobID)
	if err != nil {
		writeServiceError(w, r, "get own job", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": toJobDTO(job)})
}

// HandleNested dispatches the two-segment job routes. The mux cannot hold
// both /view/{jobId} and /{jobId}/comments since neither is more specific.
// GET /_api/job/view/{jobId}
// GET /_api/job/{jobId}/comments
func (h *JobHandler) HandleNested(w http.ResponseWriter, r *http.Request) {
	first, second := r.PathValue("first"), r.PathValue("second")
	switch {
	case first == "view":
		r.SetPathValue("jobId", second)
		h.HandleView(w, r)
	case second == "comments":
		r.SetPathValue("jobId", first)
		h.HandleComments(w, r)
	default:
		writeServiceError(w, r, "route job", domain.ErrNotFound)
	}
}

// HandleView returns any job with its owner summary.
func (h *JobHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeServiceError(w, r, "parse job id", err)
		return
	}
	job, err := h.jobs.View(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, r, "view job", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": toJobDTO(job)})
}

// HandleComments returns a page of a job's comments.
func (h *JobHandler) HandleComments(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeServiceError(w, r, "parse job id", err)
		return
	}
	page, err := h.jobs.Comments(r.Context(), jobID, queryPage(r))
	if err != nil {
		writeServiceError(w, r, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comments":    toCommentDTOs(page.Items),
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

// HandleComment posts a comment on a job.
// POST /_api/job/comment
// Request:  {"content":"...","job":<id>}
func (h *JobHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Job     flexID `json:"job"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode comment", err)
		return
	}

	comment, err := h.jobs.AddComment(r.Context(), UserFromContext(r.Context()).ID, int64(req.Job), req.Content)
	if err != nil {
		writeServiceError(w, r, "add comment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": toCommentDTO(comment)})
}

// HandleReaction toggles the caller's reaction on a comment.
// POST /_api/job/reaction
// Request:  {"job":<id>,"comment":<id>,"reaction":"like|dislike"}
func (h *JobHandler) HandleReaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Job      flexID `json:"job"`
		Comment  flexID `json:"comment"`
		Reaction string `json:"reaction"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode reaction", err)
		return
	}

	err := h.jobs.React(r.Context(), UserFromContext(r.Context()).ID, int64(req.Job), int64(req.Comment), req.Reaction)
	if err != nil {
		writeServiceError(w, r, "react to comment", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
