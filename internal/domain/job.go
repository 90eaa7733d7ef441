package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFull JobType = "full"
	JobTypePart JobType = "part"
)

// Job is a posting owned by a user.
type Job struct {
	ID        int64
	OwnerID   int64
	Owner     *UserSummary // populated by listing queries
	Category  string
	Title     string
	Content   string
	Type      JobType
	Tags      []string
	EditedAt  *time.Time
	CreatedAt time.Time
}

// JobFilter narrows the public job listing. Zero values match everything.
type JobFilter struct {
	Category    string
	Tag         string
	Type        JobType
	OldestFirst bool
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	// GetOwned returns ErrNotFound when the job is missing or owned by someone else.
	GetOwned(ctx context.Context, id, ownerID int64) (*Job, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Job, error)
	List(ctx context.Context, filter JobFilter, page Page) ([]Job, error)
	Count(ctx context.Context, filter JobFilter) (int, error)
	// Update rewrites the editable fields. A non-zero ownerID restricts the
	// update to that owner; ErrNotFound is returned when no row matched.
	Update(ctx context.Context, job *Job, ownerID int64) error
	// Delete removes the job and its comments. A non-zero ownerID restricts
	// the delete to that owner.
	Delete(ctx context.Context, id, ownerID int64) error
}
