package service

import (
	"context"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
)

// ClientUpdateInput carries the editable fields of a client profile.
// Verified may only be set by staff.
type ClientUpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Verified *bool
}

// ClientService manages customer accounts beyond registration
type ClientService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, input ClientUpdateInput) (*domain.Client, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of ClientService
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, input ClientUpdateInput) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Verified != nil {
		client.Verified = *input.Verified
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}
