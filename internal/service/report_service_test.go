package service

import (
	"context"
	"testing"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReportRepository struct {
	notifications []repository.ClientNotification
	favorites     []repository.FavoriteProduct
}

func (m *mockReportRepository) AdminDashboard(ctx context.Context) (*repository.AdminDashboard, error) {
	return &repository.AdminDashboard{}, nil
}

func (m *mockReportRepository) SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*repository.SellerDashboard, error) {
	return &repository.SellerDashboard{}, nil
}

func (m *mockReportRepository) SalesByStatus(ctx context.Context, from, to time.Time) ([]repository.StatusBreakdown, error) {
	return nil, nil
}

func (m *mockReportRepository) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentBreakdown, error) {
	return nil, nil
}

func (m *mockReportRepository) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	return nil, nil
}

func (m *mockReportRepository) TopClients(ctx context.Context, limit int) ([]repository.TopClient, error) {
	return nil, nil
}

func (m *mockReportRepository) ClientNotifications(ctx context.Context, clientID uuid.UUID, limit int) ([]repository.ClientNotification, error) {
	return m.notifications, nil
}

func (m *mockReportRepository) FavoriteProducts(ctx context.Context, clientID uuid.UUID, limit int) ([]repository.FavoriteProduct, error) {
	return m.favorites, nil
}

func TestClientNotifications_MessageFollowsSaleStatus(t *testing.T) {
	repo := &mockReportRepository{
		notifications: []repository.ClientNotification{
			{SaleID: uuid.New(), Status: domain.StatusPending, Total: decimal.RequireFromString("10.00")},
			{SaleID: uuid.New(), Status: domain.StatusConfirmed, Total: decimal.RequireFromString("20.00")},
			{SaleID: uuid.New(), Status: domain.StatusCancelled, Total: decimal.RequireFromString("30.00")},
		},
	}
	svc := NewReportService(repo)

	notifications, err := svc.ClientNotifications(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	assert.Equal(t, "your purchase is awaiting payment confirmation", notifications[0].Message)
	assert.Equal(t, "your purchase has been confirmed", notifications[1].Message)
	assert.Equal(t, "your purchase was cancelled", notifications[2].Message)
}

func TestFavoriteProducts_PassesThroughRanking(t *testing.T) {
	repo := &mockReportRepository{
		favorites: []repository.FavoriteProduct{
			{ProductID: uuid.New(), Name: "brake pads", QuantityBought: 6},
			{ProductID: uuid.New(), Name: "oil filter", QuantityBought: 2},
		},
	}
	svc := NewReportService(repo)

	favorites, err := svc.FavoriteProducts(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "brake pads", favorites[0].Name)
}
