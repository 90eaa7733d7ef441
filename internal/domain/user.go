package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
)

// Contact holds optional ways to reach a user outside the platform.
type Contact struct {
	Country  string
	Phone    string
	Telegram string
	WhatsApp string
}

// User represents a registered account. SessionToken is issued once at
// signup and is the only credential resolved on authenticated requests.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	Avatar       string // avatar id, empty when unset
	Contact      Contact
	Role         Role
	SessionToken string
	IP           string // IPv4 captured at signup, empty when unknown
	Admin        bool
	Banned       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the public slice of a user embedded in jobs and comments.
type UserSummary struct {
	ID      int64
	Name    string
	Email   string
	Avatar  string
	Contact Contact
}

// Page describes a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip for the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages returns how many pages of the given size hold count rows.
func (p Page) TotalPages(count int) int {
	if p.Size <= 0 {
		return 0
	}
	return (count + p.Size - 1) / p.Size
}

// UserRepository defines persistence operations for users. Every mutation is
// a single conditional statement keyed by id so concurrent updates never
// interleave a read-modify-write.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetBySessionToken(ctx context.Context, token string) (*User, error)
	SessionTokenExists(ctx context.Context, token string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// BannedIPExists reports whether any banned user was registered from ip.
	BannedIPExists(ctx context.Context, ip string) (bool, error)
	List(ctx context.Context, page Page) ([]User, error)
	Count(ctx context.Context) (int, error)
	UpdateInfo(ctx context.Context, id int64, name, email, bio string) error
	UpdateContact(ctx context.Context, id int64, contact Contact) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// UpdateAvatar swaps the avatar key and returns the previous one.
	UpdateAvatar(ctx context.Context, id int64, avatar string) (string, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	SetAdminByEmail(ctx context.Context, email string) error
	// Delete removes the user; jobs, comments and reactions cascade.
	Delete(ctx context.Context, id int64) error
}
