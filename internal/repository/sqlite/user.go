package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, name, email, password_hash, bio, avatar,
	contact_country, contact_phone, contact_telegram, contact_whatsapp,
	role, session_token, COALESCE(ip, ''), admin, banned, created_at, updated_at`

func scanUser(s scanner) (*domain.User, error) {
	u := &domain.User{}
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Bio, &u.Avatar,
		&u.Contact.Country, &u.Contact.Phone, &u.Contact.Telegram, &u.Contact.WhatsApp,
		&u.Role, &u.SessionToken, &u.IP, &u.Admin, &u.Banned, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	ip := sql.NullString{String: user.IP, Valid: user.IP != ""}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, bio, role, session_token, ip, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.Bio, user.Role, user.SessionToken, ip, now, now,
	)
	if err != nil {
		switch uniqueViolation(err) {
		case "users.email":
			return domain.ErrDuplicateEmail
		case "users.session_token":
			return domain.ErrDuplicateToken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *UserRepository) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, "session_token = ?", token)
}

func (r *UserRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE `+where+`)`, args...,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("query user exists: %w", err)
	}
	return found, nil
}

func (r *UserRepository) SessionTokenExists(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, "session_token = ?", token)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) BannedIPExists(ctx context.Context, ip string) (bool, error) {
	return r.exists(ctx, "banned = 1 AND ip = ?", ip)
}

func (r *UserRepository) List(ctx context.Context, page domain.Page) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// update runs a single-row UPDATE and maps a miss to ErrNotFound.
func (r *UserRepository) update(ctx context.Context, set string, id int64, args ...any) error {
	args = append(args, time.Now().UTC(), id)
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		if uniqueViolation(err) == "users.email" {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
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

func (r *UserRepository) UpdateInfo(ctx context.Context, id int64, name, email, bio string) error {
	return r.update(ctx, "name = ?, email = ?, bio = ?", id, name, email, bio)
}

func (r *UserRepository) UpdateContact(ctx context.Context, id int64, c domain.Contact) error {
	return r.update(ctx,
		"contact_country = ?, contact_phone = ?, contact_telegram = ?, contact_whatsapp = ?",
		id, c.Country, c.Phone, c.Telegram, c.WhatsApp)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.update(ctx, "password_hash = ?", id, passwordHash)
}

func (r *UserRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	return r.update(ctx, "banned = ?", id, banned)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = ?`, id).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("query avatar: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`,
		avatar, time.Now().UTC(), id,
	); err != nil {
		return "", fmt.Errorf("update avatar: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return previous, nil
}

func (r *UserRepository) SetAdminByEmail(ctx context.Context, email string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET admin = 1, updated_at = ? WHERE email = ?`, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("promote user: %w", err)
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

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
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
