package domain

import (
	"context"
	"time"
)

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Reactor is a user who reacted to a comment.
type Reactor struct {
	ID   int64
	Name string
}

// Comment is a message on a job. A user appears in at most one of Likes and
// Dislikes.
type Comment struct {
	ID        int64
	JobID     int64
	OwnerID   int64
	Owner     *UserSummary
	Content   string
	Likes     []Reactor
	Dislikes  []Reactor
	EditedAt  *time.Time
	CreatedAt time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	ListByJob(ctx context.Context, jobID int64, page Page) ([]Comment, error)
	CountByJob(ctx context.Context, jobID int64) (int, error)
	// ToggleReaction applies reaction for userID on the comment belonging to
	// jobID: same reaction again removes it, the opposite one is replaced.
	ToggleReaction(ctx context.Context, jobID, commentID, userID int64, reaction Reaction) error
}
