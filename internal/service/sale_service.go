package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxReceiptNumberLength = 255

var (
	ErrEmptyCart            = errors.New("cart must contain at least one item")
	ErrInvalidChannel       = errors.New("invalid sale channel")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidTotal         = errors.New("sale total must be greater than zero")
	ErrNoActiveSalesperson  = errors.New("no active salesperson available")
)

// Viewer is the request-scoped identity a sale operation runs as
type Viewer struct {
	ID   uuid.UUID
	Role string
}

// CartLine is one requested product/quantity pair
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput is a proposed sale. SalespersonID may be zero for web
// purchases, in which case the first active salesperson is recorded.
// Total and ReceiptNumber are optional caller overrides.
type CreateSaleInput struct {
	ClientID      uuid.UUID
	SalespersonID uuid.UUID
	Channel       domain.SaleChannel
	PaymentMethod domain.PaymentMethod
	Lines         []CartLine
	Total         *decimal.Decimal
	ReceiptNumber *string
}

// UpdateSaleInput carries the editable fields of an existing sale
type UpdateSaleInput struct {
	Status        *domain.SaleStatus
	PaymentMethod *domain.PaymentMethod
}

// SaleService implements the sale transaction workflow
type SaleService interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*domain.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID, viewer Viewer) (*domain.Sale, error)
	ListSales(ctx context.Context, viewer Viewer) ([]*domain.Sale, error)
	UpdateSale(ctx context.Context, id uuid.UUID, input UpdateSaleInput, viewer Viewer) (*domain.Sale, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	receipts    ReceiptNumberGenerator
	now         func() time.Time
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	receipts ReceiptNumberGenerator,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		receipts:    receipts,
		now:         time.Now,
	}
}

// CreateSale validates the proposed sale in full, then commits the header,
// line items, and stock decrements atomically. Any failure leaves no
// partial effect.
func (s *saleService) CreateSale(ctx context.Context, input CreateSaleInput) (*domain.Sale, error) {
	if !input.Channel.Valid() {
		return nil, ErrInvalidChannel
	}
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if len(input.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	salespersonID := input.SalespersonID
	if salespersonID == uuid.Nil {
		// Web purchases carry no staff identity; record the first active
		// salesperson, matching the in-store assignment rule.
		seller, err := s.userRepo.FindFirstActiveSalesperson(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrNoActiveSalesperson
			}
			return nil, err
		}
		salespersonID = seller.ID
	} else if _, err := s.userRepo.FindByID(ctx, salespersonID); err != nil {
		return nil, err
	}

	saleID := uuid.New()
	items := make([]*domain.SaleLineItem, 0, len(input.Lines))
	products := make(map[uuid.UUID]*domain.Product, len(input.Lines))
	requested := make(map[uuid.UUID]int, len(input.Lines))
	computed := decimal.Zero
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, ok := products[line.ProductID]
		if !ok {
			var err error
			product, err = s.productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			products[line.ProductID] = product
		}

		// Stock must cover the product's quantity across ALL cart lines, not
		// just this one.
		requested[line.ProductID] += line.Quantity
		if product.Stock < requested[line.ProductID] {
			return nil, fmt.Errorf("%w: product %s has %d units, %d requested",
				repository.ErrInsufficientStock, product.Name, product.Stock, requested[line.ProductID])
		}

		item := &domain.SaleLineItem{
			ID:        uuid.New(),
			SaleID:    saleID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.SalePrice,
		}
		items = append(items, item)
		computed = computed.Add(item.Subtotal())
	}

	// A caller-supplied total is used verbatim only when it is positive and
	// within the column range; anything else falls back to the computed sum.
	total := computed
	if input.Total != nil && input.Total.IsPositive() && input.Total.LessThanOrEqual(domain.MaxSaleTotal) {
		total = *input.Total
	}
	if !total.IsPositive() {
		// A cart of zero-priced products with no usable override would fail
		// the total > 0 column constraint; reject it up front.
		return nil, ErrInvalidTotal
	}

	receipt := input.ReceiptNumber
	if receipt == nil || *receipt == "" || len(*receipt) > maxReceiptNumberLength {
		generated, err := s.receipts.Next(ctx, s.now().Year())
		if err != nil {
			return nil, err
		}
		receipt = &generated
	}

	sale := &domain.Sale{
		ID:            saleID,
		ClientID:      input.ClientID,
		SalespersonID: salespersonID,
		Channel:       input.Channel,
		Status:        domain.StatusForPayment(input.PaymentMethod),
		PaymentMethod: input.PaymentMethod,
		ReceiptNumber: receipt,
		Total:         total,
		SoldAt:        s.now(),
		Items:         items,
	}

	// Stock is re-checked under row locks inside the transaction, so two
	// sales racing for the last unit cannot both succeed.
	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// GetSale returns a sale scoped to the viewer: salespeople see only their
// own sales, customers only their own purchases.
func (s *saleService) GetSale(ctx context.Context, id uuid.UUID, viewer Viewer) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch viewer.Role {
	case domain.RoleSalesperson:
		if sale.SalespersonID != viewer.ID {
			return nil, repository.ErrSaleNotFound
		}
	case domain.RoleCustomer:
		if sale.ClientID != viewer.ID {
			return nil, repository.ErrSaleNotFound
		}
	}

	return sale, nil
}

// ListSales returns sales visible to the viewer, most recent first
func (s *saleService) ListSales(ctx context.Context, viewer Viewer) ([]*domain.Sale, error) {
	filter := repository.SaleListFilter{}

	switch viewer.Role {
	case domain.RoleSalesperson:
		id := viewer.ID
		filter.SalespersonID = &id
	case domain.RoleCustomer:
		id := viewer.ID
		filter.ClientID = &id
	}

	return s.saleRepo.List(ctx, filter)
}

// UpdateSale edits a sale's status and payment method. Switching the
// payment method to a pre-verified digital method (qr, transfer) while the
// sale is not cancelled promotes it to confirmed; switching back to cash
// never demotes it.
func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, input UpdateSaleInput, viewer Viewer) (*domain.Sale, error) {
	sale, err := s.GetSale(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, errors.New("invalid sale status")
		}
		sale.Status = *input.Status
	}

	if input.PaymentMethod != nil {
		if !input.PaymentMethod.Valid() {
			return nil, ErrInvalidPaymentMethod
		}

		previous := sale.PaymentMethod
		sale.PaymentMethod = *input.PaymentMethod

		digital := *input.PaymentMethod == domain.PaymentQR || *input.PaymentMethod == domain.PaymentTransfer
		if digital && previous != *input.PaymentMethod && sale.Status != domain.StatusCancelled {
			sale.Status = domain.StatusConfirmed
		}
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}
