package service

import (
	"context"
	"errors"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeStock = errors.New("stock cannot be negative")
	ErrNegativePrice = errors.New("prices cannot be negative")
)

// ProductInput carries the writable fields of a product
type ProductInput struct {
	Code          *string
	Name          string
	Description   string
	CategoryID    uuid.UUID
	SupplierID    uuid.UUID
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int
	MinStock      int
}

// ProductService implements product catalog management
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter repository.ProductListFilter, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
	ListLowStock(ctx context.Context) ([]*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
	}
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:            uuid.New(),
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		SupplierID:    input.SupplierID,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		Stock:         input.Stock,
		MinStock:      input.MinStock,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Code = input.Code
	product.Name = input.Name
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.SupplierID = input.SupplierID
	product.PurchasePrice = input.PurchasePrice
	product.SalePrice = input.SalePrice
	product.Stock = input.Stock
	product.MinStock = input.MinStock

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filter repository.ProductListFilter, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	return s.productRepo.List(ctx, filter, page, pageSize, sortBy, sortOrder)
}

func (s *productService) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.Search(ctx, query, page, pageSize)
}

func (s *productService) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.ListLowStock(ctx)
}

func (s *productService) validate(ctx context.Context, input ProductInput) error {
	if input.Stock < 0 || input.MinStock < 0 {
		return ErrNegativeStock
	}
	if input.PurchasePrice.IsNegative() || input.SalePrice.IsNegative() {
		return ErrNegativePrice
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return err
	}
	if _, err := s.supplierRepo.FindByID(ctx, input.SupplierID); err != nil {
		return err
	}

	return nil
}
