package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
)

// commentRepo implements domain.CommentRepository using SQLite.
// Reactions live in comment_reactions keyed by (comment_id, user_id), so a
// user holds at most one reaction per comment.
type commentRepo struct {
	db *sql.DB
}

const commentColumns = `c.id, c.job_id, c.owner_id, c.content, c.edited_at, c.created_at,
	u.id, u.name, u.email, u.avatar, u.contact_country, u.contact_phone, u.contact_telegram, u.contact_whatsapp`

const commentFrom = ` FROM comments c JOIN users u ON u.id = c.owner_id`

func scanComment(s scanner) (*domain.Comment, error) {
	c := &domain.Comment{Owner: &domain.UserSummary{}}
	var edited sql.NullTime
	o := c.Owner
	err := s.Scan(&c.ID, &c.JobID, &c.OwnerID, &c.Content, &edited, &c.CreatedAt,
		&o.ID, &o.Name, &o.Email, &o.Avatar, &o.Contact.Country, &o.Contact.Phone, &o.Contact.Telegram, &o.Contact.WhatsApp)
	if err != nil {
		return nil, err
	}
	c.EditedAt = timePtr(edited)
	return c, nil
}

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (job_id, owner_id, content, created_at) VALUES (?, ?, ?, ?)`,
		comment.JobID, comment.OwnerID, comment.Content, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get comment id: %w", err)
	}

	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if err := r.loadReactions(ctx, []*domain.Comment{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepo) ListByJob(ctx context.Context, jobID int64, page domain.Page) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.job_id = ?
		 ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`,
		jobID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadReactions(ctx, comments); err != nil {
		return nil, err
	}

	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		out[i] = *c
	}
	return out, nil
}

func (r *commentRepo) loadReactions(ctx context.Context, comments []*domain.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Comment, len(comments))
	placeholders := make([]string, len(comments))
	args := make([]any, len(comments))
	for i, c := range comments {
		byID[c.ID] = c
		placeholders[i] = "?"
		args[i] = c.ID
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT r.comment_id, r.kind, u.id, u.name
		 FROM comment_reactions r JOIN users u ON u.id = r.user_id
		 WHERE r.comment_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY r.created_at, r.user_id`, args...)
	if err != nil {
		return fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID int64
		var kind domain.Reaction
		var who domain.Reactor
		if err := rows.Scan(&commentID, &kind, &who.ID, &who.Name); err != nil {
			return fmt.Errorf("scan reaction: %w", err)
		}
		c := byID[commentID]
		switch kind {
		case domain.ReactionLike:
			c.Likes = append(c.Likes, who)
		case domain.ReactionDislike:
			c.Dislikes = append(c.Dislikes, who)
		}
	}
	return rows.Err()
}

func (r *commentRepo) CountByJob(ctx context.Context, jobID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE job_id = ?`, jobID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (r *commentRepo) ToggleReaction(ctx context.Context, jobID, commentID, userID int64, reaction domain.Reaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var found bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM comments WHERE id = ? AND job_id = ?)`, commentID, jobID,
	).Scan(&found); err != nil {
		return fmt.Errorf("query comment: %w", err)
	}
	if !found {
		return domain.ErrNotFound
	}

	var current domain.Reaction
	err = tx.QueryRowContext(ctx,
		`SELECT kind FROM comment_reactions WHERE comment_id = ? AND user_id = ?`, commentID, userID,
	).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO comment_reactions (comment_id, user_id, kind, created_at) VALUES (?, ?, ?, ?)`,
			commentID, userID, reaction, time.Now().UTC())
	case err != nil:
		return fmt.Errorf("query reaction: %w", err)
	case current == reaction:
		_, err = tx.ExecContext(ctx,
			`DELETE FROM comment_reactions WHERE comment_id = ? AND user_id = ?`, commentID, userID)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE comment_reactions SET kind = ?, created_at = ? WHERE comment_id = ? AND user_id = ?`,
			reaction, time.Now().UTC(), commentID, userID)
	}
	if err != nil {
		return fmt.Errorf("apply reaction: %w", err)
	}

	return tx.Commit()
}
