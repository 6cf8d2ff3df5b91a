package transport

import (
	"errors"
	"net/http"

	"parts-store/internal/domain"
	"parts-store/internal/middleware"
	"parts-store/internal/repository"
	"parts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleItemRequest is one cart line in a sale request
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest represents the sale creation payload
type CreateSaleRequest struct {
	ClientID      string            `json:"client_id" validate:"omitempty,uuid"`
	SalespersonID string            `json:"salesperson_id" validate:"omitempty,uuid"`
	Channel       string            `json:"channel" validate:"required,oneof=in-person web"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash qr transfer"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Total         *decimal.Decimal  `json:"total"`
	ReceiptNumber *string           `json:"receipt_number"`
}

// UpdateSaleRequest represents the sale edit payload
type UpdateSaleRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash qr transfer"`
}

// SaleHandler handles HTTP requests for sale operations
type SaleHandler struct {
	saleService service.SaleService
	logger      *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.CreateSale)
		r.Get("/", h.ListSales)
		r.Get("/{id}", h.GetSale)

		// Sales are edited by staff, never deleted
		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			r.Patch("/{id}", h.UpdateSale)
		})
	})
}

// CreateSale handles sale creation for both in-person and web purchases
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateSaleInput{
		Channel:       domain.SaleChannel(req.Channel),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Total:         req.Total,
		ReceiptNumber: req.ReceiptNumber,
	}

	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
			return
		}
		input.Lines = append(input.Lines, service.CartLine{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	switch viewer.Role {
	case domain.RoleCustomer:
		// Customers buy for themselves through the web channel only
		input.ClientID = viewer.ID
		input.Channel = domain.ChannelWeb
	case domain.RoleSalesperson:
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "client_id is required")
			return
		}
		input.ClientID = clientID
		input.SalespersonID = viewer.ID
	default:
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "client_id is required")
			return
		}
		input.ClientID = clientID
		if req.SalespersonID != "" {
			salespersonID, err := uuid.Parse(req.SalespersonID)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid salesperson ID")
				return
			}
			input.SalespersonID = salespersonID
		}
	}

	sale, err := h.saleService.CreateSale(r.Context(), input)
	if err != nil {
		h.respondSaleError(w, err, "failed to create sale")
		return
	}

	h.logger.Info("Sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", derefString(sale.ReceiptNumber)),
		zap.String("status", string(sale.Status)),
		zap.String("total", sale.Total.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// GetSale handles fetching a single sale with its line items
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(r.Context(), id, viewer)
	if err != nil {
		h.respondSaleError(w, err, "failed to get sale")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// ListSales handles listing sales visible to the caller
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sales, err := h.saleService.ListSales(r.Context(), viewer)
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// UpdateSale handles editing a sale's status and payment method
func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale ID")
		return
	}

	var req UpdateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateSaleInput{}
	if req.Status != nil {
		status := domain.SaleStatus(*req.Status)
		input.Status = &status
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	sale, err := h.saleService.UpdateSale(r.Context(), id, input, viewer)
	if err != nil {
		h.respondSaleError(w, err, "failed to update sale")
		return
	}

	h.logger.Info("Sale updated",
		zap.String("sale_id", sale.ID.String()),
		zap.String("status", string(sale.Status)),
		zap.String("payment_method", string(sale.PaymentMethod)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) respondSaleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidChannel),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidTotal):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrSaleNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrClientNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrReceiptNumberTaken):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoActiveSalesperson):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Sale operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func viewerFromContext(r *http.Request) (service.Viewer, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return service.Viewer{}, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return service.Viewer{}, false
	}

	role, ok := middleware.GetUserRole(r.Context())
	if !ok {
		return service.Viewer{}, false
	}

	return service.Viewer{ID: userID, Role: role}, true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
