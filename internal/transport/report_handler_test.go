package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/middleware"
	"parts-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReportService struct {
	notifications []repository.ClientNotification
	favorites     []repository.FavoriteProduct
}

func (m *mockReportService) AdminDashboard(ctx context.Context) (*repository.AdminDashboard, error) {
	return &repository.AdminDashboard{}, nil
}

func (m *mockReportService) SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*repository.SellerDashboard, error) {
	return &repository.SellerDashboard{}, nil
}

func (m *mockReportService) SalesByStatus(ctx context.Context, from, to time.Time) ([]repository.StatusBreakdown, error) {
	return nil, nil
}

func (m *mockReportService) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentBreakdown, error) {
	return nil, nil
}

func (m *mockReportService) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	return nil, nil
}

func (m *mockReportService) TopClients(ctx context.Context, limit int) ([]repository.TopClient, error) {
	return nil, nil
}

func (m *mockReportService) ClientNotifications(ctx context.Context, clientID uuid.UUID) ([]repository.ClientNotification, error) {
	return m.notifications, nil
}

func (m *mockReportService) FavoriteProducts(ctx context.Context, clientID uuid.UUID) ([]repository.FavoriteProduct, error) {
	return m.favorites, nil
}

func reportRequest(path string, viewerID uuid.UUID, role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, viewerID.String())
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestClientNotifications_ReturnsTheCustomersFeed(t *testing.T) {
	svc := &mockReportService{
		notifications: []repository.ClientNotification{
			{
				SaleID:  uuid.New(),
				Status:  domain.StatusConfirmed,
				Total:   decimal.RequireFromString("23.50"),
				Message: "your purchase has been confirmed",
			},
		},
	}
	handler := NewReportHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	handler.ClientNotifications(w, reportRequest("/api/reports/notifications", uuid.New(), domain.RoleCustomer))

	assert.Equal(t, http.StatusOK, w.Code)

	var feed []repository.ClientNotification
	require.NoError(t, json.NewDecoder(w.Body).Decode(&feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "your purchase has been confirmed", feed[0].Message)
}

func TestClientNotifications_StaffIsForbidden(t *testing.T) {
	handler := NewReportHandler(&mockReportService{}, zap.NewNop())

	for _, role := range []string{domain.RoleAdmin, domain.RoleSalesperson} {
		w := httptest.NewRecorder()
		handler.ClientNotifications(w, reportRequest("/api/reports/notifications", uuid.New(), role))
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s must not read customer feeds", role)
	}
}

func TestFavoriteProducts_ReturnsTheCustomersRanking(t *testing.T) {
	svc := &mockReportService{
		favorites: []repository.FavoriteProduct{
			{ProductID: uuid.New(), Name: "brake pads", QuantityBought: 6},
		},
	}
	handler := NewReportHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	handler.FavoriteProducts(w, reportRequest("/api/reports/favorites", uuid.New(), domain.RoleCustomer))

	assert.Equal(t, http.StatusOK, w.Code)

	var favorites []repository.FavoriteProduct
	require.NoError(t, json.NewDecoder(w.Body).Decode(&favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "brake pads", favorites[0].Name)
}

func TestFavoriteProducts_StaffIsForbidden(t *testing.T) {
	handler := NewReportHandler(&mockReportService{}, zap.NewNop())

	w := httptest.NewRecorder()
	handler.FavoriteProducts(w, reportRequest("/api/reports/favorites", uuid.New(), domain.RoleSalesperson))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
