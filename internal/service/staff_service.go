package service

import (
	"context"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
)

// StaffUpdateInput carries the editable fields of a staff account.
// Accounts are deactivated, never deleted, so their sales stay attributed.
type StaffUpdateInput struct {
	Name   *string
	Email  *string
	Role   *string
	Active *bool
}

// StaffService manages staff accounts beyond registration
type StaffService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, input StaffUpdateInput) (*domain.User, error)
}

type staffService struct {
	userRepo repository.UserRepository
}

// NewStaffService creates a new instance of StaffService
func NewStaffService(userRepo repository.UserRepository) StaffService {
	return &staffService{userRepo: userRepo}
}

func (s *staffService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *staffService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *staffService) Update(ctx context.Context, id uuid.UUID, input StaffUpdateInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if *input.Role != domain.RoleAdmin && *input.Role != domain.RoleSalesperson {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
