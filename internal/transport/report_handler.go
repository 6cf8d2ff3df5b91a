package transport

import (
	"net/http"
	"strconv"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/middleware"
	"parts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler handles HTTP requests for dashboards and reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)

		// The seller dashboard is scoped to the caller
		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			r.Get("/dashboard/seller", h.SellerDashboard)
		})

		// Customer-facing feeds, scoped to the caller's own purchases
		r.Get("/notifications", h.ClientNotifications)
		r.Get("/favorites", h.FavoriteProducts)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/dashboard", h.AdminDashboard)
			r.Get("/sales-by-status", h.SalesByStatus)
			r.Get("/sales-by-payment", h.SalesByPaymentMethod)
			r.Get("/top-products", h.TopProducts)
			r.Get("/top-clients", h.TopClients)
		})
	})
}

// AdminDashboard handles the storewide dashboard counters
func (h *ReportHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportService.AdminDashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build admin dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dashboard)
}

// SellerDashboard handles the caller's own sales dashboard
func (h *ReportHandler) SellerDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if viewer.Role != domain.RoleSalesperson {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	dashboard, err := h.reportService.SellerDashboard(r.Context(), viewer.ID)
	if err != nil {
		h.logger.Error("Failed to build seller dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dashboard)
}

// ClientNotifications handles the customer's status-derived purchase feed
func (h *ReportHandler) ClientNotifications(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if viewer.Role != domain.RoleCustomer {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	notifications, err := h.reportService.ClientNotifications(r.Context(), viewer.ID)
	if err != nil {
		h.logger.Error("Failed to build notification feed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build notifications")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, notifications)
}

// FavoriteProducts handles the customer's most-purchased in-stock products
func (h *ReportHandler) FavoriteProducts(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if viewer.Role != domain.RoleCustomer {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	favorites, err := h.reportService.FavoriteProducts(r.Context(), viewer.ID)
	if err != nil {
		h.logger.Error("Failed to rank favorite products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build favorites")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, favorites)
}

// SalesByStatus handles the sales-by-status breakdown over a date range
func (h *ReportHandler) SalesByStatus(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeParams(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdowns, err := h.reportService.SalesByStatus(r.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to group sales by status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, breakdowns)
}

// SalesByPaymentMethod handles the sales-by-payment breakdown over a date range
func (h *ReportHandler) SalesByPaymentMethod(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRangeParams(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdowns, err := h.reportService.SalesByPaymentMethod(r.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to group sales by payment method", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, breakdowns)
}

// TopProducts handles the best-selling products ranking
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.reportService.TopProducts(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to rank top products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// TopClients handles the most frequent buyers ranking
func (h *ReportHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	clients, err := h.reportService.TopClients(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to rank top clients", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, clients)
}

// dateRangeParams parses the from/to query parameters. The range defaults
// to the last 30 days and the upper bound is exclusive.
func dateRangeParams(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1)
	}

	return from, to, nil
}
