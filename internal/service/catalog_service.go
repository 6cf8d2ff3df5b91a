package service

import (
	"context"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
)

// CategoryService manages product categories
type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// SupplierInput carries the writable fields of a supplier
type SupplierInput struct {
	Name    string
	Contact string
	Phone   string
	Email   string
}

// SupplierService manages suppliers
type SupplierService interface {
	Create(ctx context.Context, input SupplierInput) (*domain.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*domain.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new instance of SupplierService
func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(ctx context.Context, input SupplierInput) (*domain.Supplier, error) {
	supplier := &domain.Supplier{
		ID:        uuid.New(),
		Name:      input.Name,
		Contact:   input.Contact,
		Phone:     input.Phone,
		Email:     input.Email,
		CreatedAt: time.Now(),
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = input.Name
	supplier.Contact = input.Contact
	supplier.Phone = input.Phone
	supplier.Email = input.Email

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *supplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	return s.supplierRepo.List(ctx)
}
