package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/msomdec/jobboard/internal/domain"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
	tokenAttempts     = 5
)

const (
	msgIncomplete     = "Incomplete parameters."
	msgInvalid        = "Invalid parameters."
	msgEmailTaken     = "The email has already been taken."
	msgPasswordMin    = "The password field must be at least 8 characters."
	msgPasswordMax    = "The password field must not be greater than 72 characters."
	msgBadCredentials = "These credentials do not match our records."
)

// AuthService handles signup, signin and per-request session resolution.
type AuthService struct {
	users      domain.UserRepository
	files      domain.FileStore
	bcryptCost int
	newToken   func() string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, files domain.FileStore, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		files:      files,
		bcryptCost: bcryptCost,
		newToken:   uuid.NewString,
	}
}

// SignupInput carries a registration request. IP is the caller's origin
// address as returned by OriginIPv4 and may be empty.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	IP       string
}

// Signup creates an account with a fresh, collision-checked session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" || in.Role == "" {
		return nil, domain.Invalid("email", msgIncomplete)
	}

	role := domain.Role(in.Role)
	if !slices.Contains([]domain.Role{domain.RoleFreelancer, domain.RoleClient}, role) {
		return nil, domain.Invalid("password_confirmation", msgInvalid)
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.Invalid("email", msgEmailTaken)
	}

	if err := checkPassword("password_confirmation", in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IP:           in.IP,
	}

	// The unique index is the final arbiter; the pre-check only keeps
	// collisions off the insert path.
	for range tokenAttempts {
		user.SessionToken, err = s.uniqueToken(ctx)
		if err != nil {
			return nil, err
		}
		err = s.users.Create(ctx, user)
		if !errors.Is(err, domain.ErrDuplicateToken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.Invalid("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) uniqueToken(ctx context.Context) (string, error) {
	for {
		token := s.newToken()
		exists, err := s.users.SessionTokenExists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("check session token: %w", err)
		}
		if !exists {
			return token, nil
		}
	}
}

// Signin verifies credentials and returns the user. The session token is
// never rotated here.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("email", msgIncomplete)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("email", msgBadCredentials)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Invalid("email", msgBadCredentials)
	}

	return user, nil
}

// Authenticate resolves a session token to its user. An empty or unknown
// token yields ErrUnauthenticated. A banned user yields ErrBanned unless
// allowBanned is set.
func (s *AuthService) Authenticate(ctx context.Context, token string, allowBanned bool) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user by session: %w", err)
	}

	if user.Banned && !allowBanned {
		return nil, domain.ErrBanned
	}
	return user, nil
}

// CheckOrigin rejects requests whose origin address belongs to a banned
// account. raw is the forwarded-for header or the peer address.
func (s *AuthService) CheckOrigin(ctx context.Context, raw string) error {
	ip := OriginIPv4(raw)
	if ip == "" {
		return nil
	}

	banned, err := s.users.BannedIPExists(ctx, ip)
	if err != nil {
		return fmt.Errorf("check banned origin: %w", err)
	}
	if banned {
		return domain.ErrBanned
	}
	return nil
}

// DeleteAccount removes the caller's account after re-checking the password.
// Jobs and comments go with it.
func (s *AuthService) DeleteAccount(ctx context.Context, user *domain.User, password string) error {
	if password == "" {
		return domain.Invalid("password", msgIncomplete)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Invalid("password", msgBadCredentials)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	removeAvatar(ctx, s.files, user.Avatar)
	return nil
}

// PromoteAdmin grants the admin flag to the account registered with email.
func (s *AuthService) PromoteAdmin(ctx context.Context, email string) error {
	return s.users.SetAdminByEmail(ctx, strings.TrimSpace(email))
}

func (s *AuthService) hash(password string) (string, error) {
	return hashPassword(password, s.bcryptCost)
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(field, password string) error {
	if len(password) < minPasswordLength {
		return domain.Invalid(field, msgPasswordMin)
	}
	if len(password) > maxPasswordLength {
		return domain.Invalid(field, msgPasswordMax)
	}
	return nil
}
