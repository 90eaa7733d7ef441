package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/jobboard/internal/domain"
)

const (
	jobPageSize     = 5
	commentPageSize = 3
	minTitleLength  = 30
	minContentLen   = 100
)

// Paged is one page of a listing.
type Paged[T any] struct {
	Items       []T
	TotalPages  int
	CurrentPage int
}

// JobInput carries the editable job fields. Tags is nil when the field was
// absent from the request.
type JobInput struct {
	Title    string
	Content  string
	Category string
	Type     string
	Tags     []string
}

// JobService handles job postings, comments and reactions.
type JobService struct {
	jobs     domain.JobRepository
	comments domain.CommentRepository
}

// NewJobService creates a new JobService.
func NewJobService(jobs domain.JobRepository, comments domain.CommentRepository) *JobService {
	return &JobService{jobs: jobs, comments: comments}
}

// Create validates and stores a new job owned by ownerID.
func (s *JobService) Create(ctx context.Context, ownerID int64, in JobInput) (*domain.Job, error) {
	if err := validateJob(in, false); err != nil {
		return nil, err
	}

	job := &domain.Job{
		OwnerID:  ownerID,
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Category: strings.TrimSpace(in.Category),
		Type:     domain.JobType(in.Type),
		Tags:     cleanTags(in.Tags),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Edit rewrites a job the caller owns. The full field set including tags is
// required.
func (s *JobService) Edit(ctx context.Context, ownerID, jobID int64, in JobInput) error {
	return editJob(ctx, s.jobs, ownerID, jobID, in)
}

// Delete removes a job the caller owns together with its comments.
func (s *JobService) Delete(ctx context.Context, ownerID, jobID int64) error {
	if err := s.jobs.Delete(ctx, jobID, ownerID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// ListOwn returns every job posted by ownerID, newest first.
func (s *JobService) ListOwn(ctx context.Context, ownerID int64) ([]domain.Job, error) {
	return s.jobs.ListByOwner(ctx, ownerID)
}

// GetOwn returns a job only if ownerID posted it.
func (s *JobService) GetOwn(ctx context.Context, ownerID, jobID int64) (*domain.Job, error) {
	return s.jobs.GetOwned(ctx, jobID, ownerID)
}

// View returns any job with its owner summary.
func (s *JobService) View(ctx context.Context, jobID int64) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// List returns one page of the public job board.
func (s *JobService) List(ctx context.Context, filter domain.JobFilter, page int) (*Paged[domain.Job], error) {
	p := domain.Page{Number: max(page, 1), Size: jobPageSize}

	jobs, err := s.jobs.List(ctx, filter, p)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	count, err := s.jobs.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &Paged[domain.Job]{Items: jobs, TotalPages: p.TotalPages(count), CurrentPage: p.Number}, nil
}

// Comments returns one page of comments on a job, newest first.
func (s *JobService) Comments(ctx context.Context, jobID int64, page int) (*Paged[domain.Comment], error) {
	p := domain.Page{Number: max(page, 1), Size: commentPageSize}

	comments, err := s.comments.ListByJob(ctx, jobID, p)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	count, err := s.comments.CountByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return &Paged[domain.Comment]{Items: comments, TotalPages: p.TotalPages(count), CurrentPage: p.Number}, nil
}

// AddComment posts a comment on an existing job and returns it with its
// owner summary.
func (s *JobService) AddComment(ctx context.Context, ownerID, jobID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || jobID <= 0 {
		return nil, domain.Invalid("content", msgIncomplete)
	}

	comment := &domain.Comment{JobID: jobID, OwnerID: ownerID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return created, nil
}

// React toggles the caller's like or dislike on a comment of jobID.
func (s *JobService) React(ctx context.Context, userID, jobID, commentID int64, reaction string) error {
	r := domain.Reaction(reaction)
	if jobID <= 0 || commentID <= 0 || (r != domain.ReactionLike && r != domain.ReactionDislike) {
		return domain.Invalid("content", msgIncomplete)
	}
	if err := s.comments.ToggleReaction(ctx, jobID, commentID, userID, r); err != nil {
		return fmt.Errorf("toggle reaction: %w", err)
	}
	return nil
}

func editJob(ctx context.Context, jobs domain.JobRepository, ownerID, jobID int64, in JobInput) error {
	if err := validateJob(in, true); err != nil {
		return err
	}

	job := &domain.Job{
		ID:       jobID,
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Category: strings.TrimSpace(in.Category),
		Type:     domain.JobType(in.Type),
		Tags:     cleanTags(in.Tags),
	}
	if err := jobs.Update(ctx, job, ownerID); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func validateJob(in JobInput, requireTags bool) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Content) == "" || in.Type == "" || (requireTags && in.Tags == nil) {
		return domain.Invalid("content", msgIncomplete)
	}
	if !slices.Contains([]domain.JobType{domain.JobTypeFull, domain.JobTypePart}, domain.JobType(in.Type)) {
		return domain.Invalid("content", msgInvalid)
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < minTitleLength {
		return domain.Invalid("title", "The title field must be at least 30 characters.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Content)) < minContentLen {
		return domain.Invalid("content", "The description field must be at least 100 characters.")
	}
	return nil
}

// cleanTags trims tags and drops empties and duplicates. It never returns nil.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
