package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
)

// jobRepo implements domain.JobRepository using SQLite.
type jobRepo struct {
	db *sql.DB
}

const jobColumns = `j.id, j.owner_id, j.category, j.title, j.content, j.type, j.tags, j.edited_at, j.created_at,
	u.id, u.name, u.email, u.avatar, u.contact_country, u.contact_phone, u.contact_telegram, u.contact_whatsapp`

const jobFrom = ` FROM jobs j JOIN users u ON u.id = j.owner_id`

func scanJob(s scanner) (*domain.Job, error) {
	j := &domain.Job{Owner: &domain.UserSummary{}}
	var tags string
	var edited sql.NullTime
	o := j.Owner
	err := s.Scan(&j.ID, &j.OwnerID, &j.Category, &j.Title, &j.Content, &j.Type, &tags, &edited, &j.CreatedAt,
		&o.ID, &o.Name, &o.Email, &o.Avatar, &o.Contact.Country, &o.Contact.Phone, &o.Contact.Telegram, &o.Contact.WhatsApp)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &j.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	j.EditedAt = timePtr(edited)
	return j, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	tags, err := encodeTags(job.Tags)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (owner_id, category, title, content, type, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.OwnerID, job.Category, job.Title, job.Content, job.Type, tags, now,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get job id: %w", err)
	}

	job.ID = id
	job.CreatedAt = now
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+jobFrom+` WHERE j.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (r *jobRepo) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.id = ? AND j.owner_id = ?`, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get owned job: %w", err)
	}
	return job, nil
}

func (r *jobRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = ?)`, id,
	).Scan(&found); err != nil {
		return false, fmt.Errorf("query job exists: %w", err)
	}
	return found, nil
}

func (r *jobRepo) query(ctx context.Context, q string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Job, error) {
	return r.query(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.owner_id = ? ORDER BY j.created_at DESC, j.id DESC`, ownerID)
}

func filterClause(f domain.JobFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Category != "" {
		conds = append(conds, "j.category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		conds = append(conds, "j.type = ?")
		args = append(args, f.Type)
	}
	if f.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(j.tags) WHERE json_each.value = ?)")
		args = append(args, f.Tag)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *jobRepo) List(ctx context.Context, f domain.JobFilter, page domain.Page) ([]domain.Job, error) {
	where, args := filterClause(f)
	order := " ORDER BY j.created_at DESC, j.id DESC"
	if f.OldestFirst {
		order = " ORDER BY j.created_at ASC, j.id ASC"
	}
	args = append(args, page.Size, page.Offset())
	return r.query(ctx, `SELECT `+jobColumns+jobFrom+where+order+` LIMIT ? OFFSET ?`, args...)
}

func (r *jobRepo) Count(ctx context.Context, f domain.JobFilter) (int, error) {
	where, args := filterClause(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs j`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job, ownerID int64) error {
	tags, err := encodeTags(job.Tags)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET title = ?, content = ?, category = ?, type = ?, tags = ?, edited_at = ?
		 WHERE id = ? AND (? = 0 OR owner_id = ?)`,
		job.Title, job.Content, job.Category, job.Type, tags, now,
		job.ID, ownerID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	job.EditedAt = &now
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND (? = 0 OR owner_id = ?)`, id, ownerID, ownerID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
