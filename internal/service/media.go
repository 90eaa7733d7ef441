package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"

	"github.com/google/uuid"

	"github.com/msomdec/jobboard/internal/domain"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var (
	imageTypes  = []string{"image/jpeg", "image/png", "image/gif"}
	adIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// MediaService stores avatar and ad images in the file store.
type MediaService struct {
	users domain.UserRepository
	files domain.FileStore
}

// NewMediaService creates a new MediaService.
func NewMediaService(users domain.UserRepository, files domain.FileStore) *MediaService {
	return &MediaService{users: users, files: files}
}

// UploadAvatar stores a new avatar for the user and drops the previous one.
// It returns the new avatar id.
func (s *MediaService) UploadAvatar(ctx context.Context, userID int64, contentType string, data []byte) (string, error) {
	if err := checkImage("avatar", contentType, data); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := s.files.Save(ctx, avatarKey(id), data); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}

	previous, err := s.users.UpdateAvatar(ctx, userID, id)
	if err != nil {
		_ = s.files.Delete(ctx, avatarKey(id))
		return "", fmt.Errorf("update avatar: %w", err)
	}
	removeAvatar(ctx, s.files, previous)

	return id, nil
}

// OpenAvatar returns a reader for the avatar bytes.
func (s *MediaService) OpenAvatar(ctx context.Context, id string) (io.ReadCloser, error) {
	if u, err := uuid.Parse(id); err != nil || u.String() != id {
		return nil, domain.ErrNotFound
	}
	return s.files.Open(ctx, avatarKey(id))
}

// UploadAd stores an ad image under adID, replacing any existing one.
func (s *MediaService) UploadAd(ctx context.Context, adID, contentType string, data []byte) error {
	if !adIDPattern.MatchString(adID) {
		return domain.Invalid("adId", msgInvalid)
	}
	if err := checkImage("ad", contentType, data); err != nil {
		return err
	}
	if err := s.files.Save(ctx, adKey(adID), data); err != nil {
		return fmt.Errorf("save ad: %w", err)
	}
	return nil
}

// OpenAd returns a reader for the ad image.
func (s *MediaService) OpenAd(ctx context.Context, adID string) (io.ReadCloser, error) {
	if !adIDPattern.MatchString(adID) {
		return nil, domain.ErrNotFound
	}
	return s.files.Open(ctx, adKey(adID))
}

func checkImage(field, contentType string, data []byte) error {
	if len(data) == 0 {
		return domain.Invalid(field, msgIncomplete)
	}
	if !slices.Contains(imageTypes, contentType) {
		return domain.Invalid(field, "The file must be a JPEG, PNG or GIF image.")
	}
	if len(data) > maxImageSize {
		return domain.Invalid(field, "The file must not be greater than 5MB.")
	}
	return nil
}

func avatarKey(id string) string { return "avatars/" + id }

func adKey(id string) string { return "ads/" + id }

// removeAvatar deletes a stored avatar. Failures only leave an orphaned blob,
// so they are logged and not returned.
func removeAvatar(ctx context.Context, files domain.FileStore, id string) {
	if id == "" {
		return
	}
	if err := files.Delete(ctx, avatarKey(id)); err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.WarnContext(ctx, "delete avatar", "avatar", id, "error", err)
	}
}
