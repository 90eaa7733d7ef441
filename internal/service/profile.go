package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/msomdec/jobboard/internal/domain"
)

// ProfileService updates the caller's own account details.
type ProfileService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, bcryptCost int) *ProfileService {
	return &ProfileService{users: users, bcryptCost: bcryptCost}
}

// InfoInput carries the editable public profile fields.
type InfoInput struct {
	Name  string
	Email string
	Bio   string
}

// UpdateInfo replaces name, email and bio. Name and email are required.
func (s *ProfileService) UpdateInfo(ctx context.Context, userID int64, in InfoInput) error {
	return updateInfo(ctx, s.users, userID, in)
}

// UpdateContact replaces the contact block. An unknown country is dropped
// together with the phone number.
func (s *ProfileService) UpdateContact(ctx context.Context, userID int64, in domain.Contact) error {
	return s.users.UpdateContact(ctx, userID, cleanContact(in))
}

// ChangePassword verifies the current password before storing the new one.
func (s *ProfileService) ChangePassword(ctx context.Context, user *domain.User, current, next string) error {
	if current == "" || next == "" {
		return domain.Invalid("password", msgIncomplete)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.Invalid("password", msgBadCredentials)
	}
	return setPassword(ctx, s.users, user.ID, next, s.bcryptCost)
}

func updateInfo(ctx context.Context, users domain.UserRepository, userID int64, in InfoInput) error {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return domain.Invalid("email", msgIncomplete)
	}

	err := users.UpdateInfo(ctx, userID, name, email, strings.TrimSpace(in.Bio))
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return domain.Invalid("email", msgEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("update info: %w", err)
	}
	return nil
}

func cleanContact(in domain.Contact) domain.Contact {
	var c domain.Contact
	country := strings.ToUpper(strings.TrimSpace(in.Country))
	if knownCountry(country) {
		c.Country = country
		c.Phone = strings.TrimSpace(in.Phone)
	}
	c.Telegram = strings.TrimSpace(in.Telegram)
	c.WhatsApp = strings.TrimSpace(in.WhatsApp)
	return c
}

func setPassword(ctx context.Context, users domain.UserRepository, userID int64, password string, cost int) error {
	if password == "" {
		return domain.Invalid("new_password", msgIncomplete)
	}
	if err := checkPassword("new_password", password); err != nil {
		return err
	}
	hash, err := hashPassword(password, cost)
	if err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
