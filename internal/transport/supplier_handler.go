package transport

import (
	"errors"
	"net/http"

	"parts-store/internal/middleware"
	"parts-store/internal/repository"
	"parts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierRequest represents the supplier create/update payload
type SupplierRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	supplierService service.SupplierService
	logger          *zap.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		logger:          logger,
	}
}

// RegisterRoutes registers all supplier routes. Suppliers are an
// admin-only resource.
func (h *SupplierHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/suppliers", func(r chi.Router) {
		r.Use(authMiddleware, requireAdmin)

		r.Get("/", h.ListSuppliers)
		r.Get("/{id}", h.GetSupplier)
		r.Post("/", h.CreateSupplier)
		r.Put("/{id}", h.UpdateSupplier)
		r.Delete("/{id}", h.DeleteSupplier)
	})
}

// ListSuppliers handles listing all suppliers
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list suppliers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, suppliers)
}

// GetSupplier handles fetching a single supplier
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to get supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

// CreateSupplier handles supplier creation
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Supplier validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), service.SupplierInput{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.logger.Error("Failed to create supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create supplier")
		return
	}

	h.logger.Info("Supplier created", zap.String("supplier_id", supplier.ID.String()), zap.String("name", supplier.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, supplier)
}

// UpdateSupplier handles supplier updates
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	var req SupplierRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Supplier validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), id, service.SupplierInput{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to update supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	h.logger.Info("Supplier updated", zap.String("supplier_id", supplier.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

// DeleteSupplier handles supplier deletion
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	if err := h.supplierService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to delete supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete supplier")
		return
	}

	h.logger.Info("Supplier deleted", zap.String("supplier_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}
