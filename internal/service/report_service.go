package service

import (
	"context"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/google/uuid"
)

// ReportService exposes the dashboard and report aggregations
type ReportService interface {
	AdminDashboard(ctx context.Context) (*repository.AdminDashboard, error)
	SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*repository.SellerDashboard, error)
	SalesByStatus(ctx context.Context, from, to time.Time) ([]repository.StatusBreakdown, error)
	SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentBreakdown, error)
	TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error)
	TopClients(ctx context.Context, limit int) ([]repository.TopClient, error)
	ClientNotifications(ctx context.Context, clientID uuid.UUID) ([]repository.ClientNotification, error)
	FavoriteProducts(ctx context.Context, clientID uuid.UUID) ([]repository.FavoriteProduct, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) AdminDashboard(ctx context.Context) (*repository.AdminDashboard, error) {
	return s.reportRepo.AdminDashboard(ctx)
}

func (s *reportService) SellerDashboard(ctx context.Context, salespersonID uuid.UUID) (*repository.SellerDashboard, error) {
	return s.reportRepo.SellerDashboard(ctx, salespersonID)
}

func (s *reportService) SalesByStatus(ctx context.Context, from, to time.Time) ([]repository.StatusBreakdown, error) {
	return s.reportRepo.SalesByStatus(ctx, from, to)
}

func (s *reportService) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentBreakdown, error) {
	return s.reportRepo.SalesByPaymentMethod(ctx, from, to)
}

func (s *reportService) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	return s.reportRepo.TopProducts(ctx, limit)
}

func (s *reportService) TopClients(ctx context.Context, limit int) ([]repository.TopClient, error) {
	return s.reportRepo.TopClients(ctx, limit)
}

// ClientNotifications returns the customer's purchase feed with a
// human-readable message per sale status
func (s *reportService) ClientNotifications(ctx context.Context, clientID uuid.UUID) ([]repository.ClientNotification, error) {
	notifications, err := s.reportRepo.ClientNotifications(ctx, clientID, 0)
	if err != nil {
		return nil, err
	}

	for i := range notifications {
		notifications[i].Message = notificationMessage(notifications[i].Status)
	}

	return notifications, nil
}

func (s *reportService) FavoriteProducts(ctx context.Context, clientID uuid.UUID) ([]repository.FavoriteProduct, error) {
	return s.reportRepo.FavoriteProducts(ctx, clientID, 0)
}

func notificationMessage(status domain.SaleStatus) string {
	switch status {
	case domain.StatusPending:
		return "your purchase is awaiting payment confirmation"
	case domain.StatusConfirmed:
		return "your purchase has been confirmed"
	case domain.StatusCancelled:
		return "your purchase was cancelled"
	default:
		return ""
	}
}
