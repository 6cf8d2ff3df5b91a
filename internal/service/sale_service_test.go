package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock repositories for testing

type mockSaleRepository struct {
	sales       map[uuid.UUID]*domain.Sale
	lastReceipt string
	createErr   error
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{sales: make(map[uuid.UUID]*domain.Sale)}
}

func (m *mockSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, exists := m.sales[id]
	if !exists {
		return nil, repository.ErrSaleNotFound
	}
	return sale, nil
}

func (m *mockSaleRepository) List(ctx context.Context, filter repository.SaleListFilter) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}
	for _, sale := range m.sales {
		if filter.SalespersonID != nil && sale.SalespersonID != *filter.SalespersonID {
			continue
		}
		if filter.ClientID != nil && sale.ClientID != *filter.ClientID {
			continue
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (m *mockSaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	if _, exists := m.sales[sale.ID]; !exists {
		return repository.ErrSaleNotFound
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockSaleRepository) LastReceiptNumber(ctx context.Context, prefix string) (string, error) {
	return m.lastReceipt, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductListFilter, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, len(products), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	return m.List(ctx, repository.ProductListFilter{}, page, pageSize, "name", repository.SortOrderAsc)
}

func (m *mockProductRepository) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		if p.LowStock() {
			products = append(products, p)
		}
	}
	return products, nil
}

type mockClientRepository struct {
	clients map[uuid.UUID]*domain.Client
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[uuid.UUID]*domain.Client)}
}

func (m *mockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if _, exists := m.clients[client.ID]; !exists {
		return repository.ErrClientNotFound
	}
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, c := range m.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, exists := m.clients[id]
	if !exists {
		return nil, repository.ErrClientNotFound
	}
	return client, nil
}

func (m *mockClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	clients := []*domain.Client{}
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	return clients, nil
}

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.ID]; !exists {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindFirstActiveSalesperson(ctx context.Context) (*domain.User, error) {
	for _, u := range m.users {
		if u.Role == domain.RoleSalesperson && u.Active {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

type stubReceipts struct {
	next string
}

func (s *stubReceipts) Next(ctx context.Context, year int) (string, error) {
	return s.next, nil
}

type saleFixture struct {
	service     SaleService
	saleRepo    *mockSaleRepository
	productRepo *mockProductRepository
	clientRepo  *mockClientRepository
	userRepo    *mockUserRepository
	client      *domain.Client
	seller      *domain.User
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		saleRepo:    newMockSaleRepository(),
		productRepo: newMockProductRepository(),
		clientRepo:  newMockClientRepository(),
		userRepo:    newMockUserRepository(),
	}

	f.client = &domain.Client{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	f.clientRepo.Create(context.Background(), f.client)

	f.seller = &domain.User{ID: uuid.New(), Name: "Luis", Email: "luis@example.com", Role: domain.RoleSalesperson, Active: true}
	f.userRepo.Create(context.Background(), f.seller)

	f.service = NewSaleService(f.saleRepo, f.productRepo, f.clientRepo, f.userRepo, &stubReceipts{next: "COMP-2026-0001"})
	return f
}

func (f *saleFixture) addProduct(price string, stock int) *domain.Product {
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      "part-" + uuid.New().String()[:8],
		SalePrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
	f.productRepo.Create(context.Background(), p)
	return p
}

func TestCreateSale_TransferIsConfirmedWithComputedTotal(t *testing.T) {
	f := newSaleFixture()
	p1 := f.addProduct("10.00", 5)
	p2 := f.addProduct("3.50", 5)

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentTransfer,
		Lines: []CartLine{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, sale.Status)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("23.50")), "got total %s", sale.Total)
	require.NotNil(t, sale.ReceiptNumber)
	assert.Equal(t, "COMP-2026-0001", *sale.ReceiptNumber)
	assert.Len(t, sale.Items, 2)
}

func TestCreateSale_CashIsPending(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 3)

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sale.Status)
}

func TestCreateSale_RejectsInvalidInput(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 3)

	tests := []struct {
		name    string
		input   CreateSaleInput
		wantErr error
	}{
		{
			name: "empty cart",
			input: CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: ErrEmptyCart,
		},
		{
			name: "invalid channel",
			input: CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       "phone",
				PaymentMethod: domain.PaymentCash,
				Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
			},
			wantErr: ErrInvalidChannel,
		},
		{
			name: "invalid payment method",
			input: CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: "check",
				Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
			},
			wantErr: ErrInvalidPaymentMethod,
		},
		{
			name: "zero quantity",
			input: CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: domain.PaymentCash,
				Lines:         []CartLine{{ProductID: p.ID, Quantity: 0}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "unknown client",
			input: CreateSaleInput{
				ClientID:      uuid.New(),
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: domain.PaymentCash,
				Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
			},
			wantErr: repository.ErrClientNotFound,
		},
		{
			name: "unknown product",
			input: CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: domain.PaymentCash,
				Lines:         []CartLine{{ProductID: uuid.New(), Quantity: 1}},
			},
			wantErr: repository.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateSale(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.saleRepo.sales, "no sale should be committed on validation failure")
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 1)

	_, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 2}},
	})

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateSale_StockCoversProductAcrossDuplicateLines(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 5)

	// Each line fits the stock on its own; together they ask for 6 of 5.
	_, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines: []CartLine{
			{ProductID: p.ID, Quantity: 3},
			{ProductID: p.ID, Quantity: 3},
		},
	})

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateSale_DuplicateLinesWithinStockSucceed(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 5)

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines: []CartLine{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 3},
		},
	})

	require.NoError(t, err)
	assert.Len(t, sale.Items, 2, "duplicate lines stay separate on the receipt")
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestCreateSale_ZeroPricedCartIsRejected(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("0.00", 10)

	input := CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 2}},
	}

	_, err := f.service.CreateSale(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidTotal)
	assert.Empty(t, f.saleRepo.sales)

	// A positive override rescues the sale
	override := decimal.RequireFromString("9.50")
	input.Total = &override
	sale, err := f.service.CreateSale(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(override))
}

func TestCreateSale_WebPurchaseAssignsActiveSalesperson(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 3)

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		Channel:       domain.ChannelWeb,
		PaymentMethod: domain.PaymentQR,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, f.seller.ID, sale.SalespersonID)
	assert.Equal(t, domain.StatusConfirmed, sale.Status)
}

func TestCreateSale_NoActiveSalesperson(t *testing.T) {
	f := newSaleFixture()
	f.seller.Active = false
	p := f.addProduct("5.00", 3)

	_, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		Channel:       domain.ChannelWeb,
		PaymentMethod: domain.PaymentQR,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})

	assert.ErrorIs(t, err, ErrNoActiveSalesperson)
}

func TestCreateSale_TotalOverride(t *testing.T) {
	f := newSaleFixture()

	makeInput := func(total *decimal.Decimal) CreateSaleInput {
		p := f.addProduct("10.00", 10)
		return CreateSaleInput{
			ClientID:      f.client.ID,
			SalespersonID: f.seller.ID,
			Channel:       domain.ChannelInPerson,
			PaymentMethod: domain.PaymentCash,
			Lines:         []CartLine{{ProductID: p.ID, Quantity: 2}},
			Total:         total,
		}
	}

	override := decimal.RequireFromString("18.00")
	sale, err := f.service.CreateSale(context.Background(), makeInput(&override))
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(override), "positive override should be used verbatim")

	zero := decimal.Zero
	sale, err = f.service.CreateSale(context.Background(), makeInput(&zero))
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("20.00")), "non-positive override falls back to computed total")

	huge := domain.MaxSaleTotal.Add(decimal.NewFromInt(1))
	sale, err = f.service.CreateSale(context.Background(), makeInput(&huge))
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("20.00")), "out-of-range override falls back to computed total")
}

func TestCreateSale_ReceiptOverride(t *testing.T) {
	f := newSaleFixture()

	makeInput := func(receipt *string) CreateSaleInput {
		p := f.addProduct("10.00", 10)
		return CreateSaleInput{
			ClientID:      f.client.ID,
			SalespersonID: f.seller.ID,
			Channel:       domain.ChannelInPerson,
			PaymentMethod: domain.PaymentCash,
			Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
			ReceiptNumber: receipt,
		}
	}

	custom := "MANUAL-42"
	sale, err := f.service.CreateSale(context.Background(), makeInput(&custom))
	require.NoError(t, err)
	assert.Equal(t, custom, *sale.ReceiptNumber)

	empty := ""
	sale, err = f.service.CreateSale(context.Background(), makeInput(&empty))
	require.NoError(t, err)
	assert.Equal(t, "COMP-2026-0001", *sale.ReceiptNumber, "empty receipt falls back to the generator")

	long := strings.Repeat("x", 300)
	sale, err = f.service.CreateSale(context.Background(), makeInput(&long))
	require.NoError(t, err)
	assert.Equal(t, "COMP-2026-0001", *sale.ReceiptNumber, "oversized receipt falls back to the generator")
}

func TestGetSale_ScopesByRole(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 10)

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Admin sees everything
	_, err = f.service.GetSale(context.Background(), sale.ID, Viewer{ID: uuid.New(), Role: domain.RoleAdmin})
	assert.NoError(t, err)

	// The selling salesperson sees their own sale
	_, err = f.service.GetSale(context.Background(), sale.ID, Viewer{ID: f.seller.ID, Role: domain.RoleSalesperson})
	assert.NoError(t, err)

	// Another salesperson does not
	_, err = f.service.GetSale(context.Background(), sale.ID, Viewer{ID: uuid.New(), Role: domain.RoleSalesperson})
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)

	// The buying customer sees their purchase
	_, err = f.service.GetSale(context.Background(), sale.ID, Viewer{ID: f.client.ID, Role: domain.RoleCustomer})
	assert.NoError(t, err)

	// Another customer does not
	_, err = f.service.GetSale(context.Background(), sale.ID, Viewer{ID: uuid.New(), Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)
}

func TestUpdateSale_DigitalPaymentPromotes(t *testing.T) {
	f := newSaleFixture()
	admin := Viewer{ID: uuid.New(), Role: domain.RoleAdmin}

	createCashSale := func() *domain.Sale {
		p := f.addProduct("5.00", 10)
		sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
			ClientID:      f.client.ID,
			SalespersonID: f.seller.ID,
			Channel:       domain.ChannelInPerson,
			PaymentMethod: domain.PaymentCash,
			Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, sale.Status)
		return sale
	}

	// Switching to transfer promotes a pending sale to confirmed
	sale := createCashSale()
	transfer := domain.PaymentTransfer
	updated, err := f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{PaymentMethod: &transfer}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	// Switching back to cash never demotes
	cash := domain.PaymentCash
	updated, err = f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{PaymentMethod: &cash}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	// A cancelled sale is never promoted
	sale = createCashSale()
	cancelled := domain.StatusCancelled
	_, err = f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{Status: &cancelled}, admin)
	require.NoError(t, err)
	qr := domain.PaymentQR
	updated, err = f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{PaymentMethod: &qr}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	// Re-submitting the same digital method does not promote
	sale = createCashSale()
	pending := domain.StatusPending
	_, err = f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{Status: &pending, PaymentMethod: &transfer}, admin)
	require.NoError(t, err)
	updated, err = f.service.UpdateSale(context.Background(), sale.ID, UpdateSaleInput{PaymentMethod: &transfer}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status, "first switch to transfer promoted the sale")
}

func TestListSales_ScopesByRole(t *testing.T) {
	f := newSaleFixture()

	otherSeller := &domain.User{ID: uuid.New(), Name: "Eva", Email: "eva@example.com", Role: domain.RoleSalesperson, Active: true}
	f.userRepo.Create(context.Background(), otherSeller)

	for _, sellerID := range []uuid.UUID{f.seller.ID, otherSeller.ID} {
		p := f.addProduct("5.00", 10)
		_, err := f.service.CreateSale(context.Background(), CreateSaleInput{
			ClientID:      f.client.ID,
			SalespersonID: sellerID,
			Channel:       domain.ChannelInPerson,
			PaymentMethod: domain.PaymentCash,
			Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	all, err := f.service.ListSales(context.Background(), Viewer{ID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.service.ListSales(context.Background(), Viewer{ID: f.seller.ID, Role: domain.RoleSalesperson})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	purchases, err := f.service.ListSales(context.Background(), Viewer{ID: f.client.ID, Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, purchases, 2)
}

func TestProperty_SaleTotalEqualsSumOfLineSubtotals(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("committed total equals the sum of quantity times frozen unit price", prop.ForAll(
		func(prices []int, quantities []int) bool {
			if len(prices) == 0 {
				return true
			}
			if len(quantities) < len(prices) {
				return true
			}

			f := newSaleFixture()
			lines := make([]CartLine, 0, len(prices))
			expected := decimal.Zero
			for i, cents := range prices {
				qty := quantities[i]
				price := decimal.New(int64(cents), -2)
				p := f.addProduct(price.String(), qty)
				lines = append(lines, CartLine{ProductID: p.ID, Quantity: qty})
				expected = expected.Add(price.Mul(decimal.NewFromInt(int64(qty))))
			}

			sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: domain.PaymentCash,
				Lines:         lines,
			})
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}

			return sale.Total.Equal(expected)
		},
		gen.SliceOf(gen.IntRange(1, 99999)),
		gen.SliceOfN(20, gen.IntRange(1, 50)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StatusFollowsPaymentMethod(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("qr and transfer sales are confirmed, cash sales are pending", prop.ForAll(
		func(methodIndex int, qty int) bool {
			methods := []domain.PaymentMethod{domain.PaymentCash, domain.PaymentQR, domain.PaymentTransfer}
			method := methods[methodIndex%len(methods)]

			f := newSaleFixture()
			p := f.addProduct("7.25", qty)

			sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
				ClientID:      f.client.ID,
				SalespersonID: f.seller.ID,
				Channel:       domain.ChannelInPerson,
				PaymentMethod: method,
				Lines:         []CartLine{{ProductID: p.ID, Quantity: qty}},
			})
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}

			if method == domain.PaymentCash {
				return sale.Status == domain.StatusPending
			}
			return sale.Status == domain.StatusConfirmed
		},
		gen.IntRange(0, 2),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateSale_RepositoryFailureSurfaces(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 10)
	f.saleRepo.createErr = errors.New("connection reset")

	_, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})

	assert.Error(t, err)
}

func TestCreateSale_SoldAtUsesClock(t *testing.T) {
	f := newSaleFixture()
	p := f.addProduct("5.00", 10)

	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f.service.(*saleService).now = func() time.Time { return fixed }

	sale, err := f.service.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      f.client.ID,
		SalespersonID: f.seller.ID,
		Channel:       domain.ChannelInPerson,
		PaymentMethod: domain.PaymentCash,
		Lines:         []CartLine{{ProductID: p.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, fixed, sale.SoldAt)
}
