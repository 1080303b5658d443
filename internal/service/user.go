package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

// UserService implements the administrative user operations.
// Registration lives in AuthService; this service only reads and removes
// existing accounts.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}

// ListPaged returns one page of users plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *UserService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
	users, total, err := s.users.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.UserService.ListPaged: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

// Delete removes a user account. The user's journeys go with it
// (ON DELETE CASCADE).
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	return nil
}
