package service

import (
	"context"
	"fmt"

	"github.com/msomdec/jobboard/internal/domain"
)

const adminPageSize = 10

// AdminService exposes moderation operations. Callers must already have
// passed the admin gate.
type AdminService struct {
	users      domain.UserRepository
	jobs       domain.JobRepository
	files      domain.FileStore
	bcryptCost int
}

// NewAdminService creates a new AdminService.
func NewAdminService(users domain.UserRepository, jobs domain.JobRepository, files domain.FileStore, bcryptCost int) *AdminService {
	return &AdminService{users: users, jobs: jobs, files: files, bcryptCost: bcryptCost}
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AdminService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListUsers returns one page of accounts, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page int) (*Paged[domain.User], error) {
	p := domain.Page{Number: max(page, 1), Size: adminPageSize}

	users, err := s.users.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &Paged[domain.User]{Items: users, TotalPages: p.TotalPages(count), CurrentPage: p.Number}, nil
}

// ListJobs returns one page of all jobs, newest first.
func (s *AdminService) ListJobs(ctx context.Context, page int) (*Paged[domain.Job], error) {
	p := domain.Page{Number: max(page, 1), Size: adminPageSize}

	jobs, err := s.jobs.List(ctx, domain.JobFilter{}, p)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	count, err := s.jobs.Count(ctx, domain.JobFilter{})
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &Paged[domain.Job]{Items: jobs, TotalPages: p.TotalPages(count), CurrentPage: p.Number}, nil
}

func (s *AdminService) UpdateUserInfo(ctx context.Context, id int64, in InfoInput) error {
	return updateInfo(ctx, s.users, id, in)
}

func (s *AdminService) UpdateUserContact(ctx context.Context, id int64, in domain.Contact) error {
	return s.users.UpdateContact(ctx, id, cleanContact(in))
}

// SetUserPassword overwrites a user's password without the current one.
func (s *AdminService) SetUserPassword(ctx context.Context, id int64, password string) error {
	return setPassword(ctx, s.users, id, password, s.bcryptCost)
}

// DeleteUser removes the account, its jobs and comments, and its avatar file.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	removeAvatar(ctx, s.files, user.Avatar)
	return nil
}

// Ban sets the banned flag. The user's signup address is blocked by the
// origin gate from then on.
func (s *AdminService) Ban(ctx context.Context, id int64) error {
	return s.users.SetBanned(ctx, id, true)
}

func (s *AdminService) Unban(ctx context.Context, id int64) error {
	return s.users.SetBanned(ctx, id, false)
}

// EditJob rewrites any job regardless of owner.
func (s *AdminService) EditJob(ctx context.Context, id int64, in JobInput) error {
	return editJob(ctx, s.jobs, 0, id, in)
}

// DeleteJob removes any job and its comments.
func (s *AdminService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id, 0); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}
