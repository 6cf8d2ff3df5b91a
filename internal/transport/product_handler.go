package transport

import (
	"errors"
	"net/http"
	"strconv"

	"parts-store/internal/middleware"
	"parts-store/internal/repository"
	"parts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	Code          *string         `json:"code"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	SupplierID    string          `json:"supplier_id" validate:"required,uuid"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock" validate:"gte=0"`
	MinStock      int             `json:"min_stock" validate:"gte=0"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public catalog
		r.Get("/", h.ListProducts)
		r.Get("/search", h.SearchProducts)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireStaff)
			r.Get("/low-stock", h.ListLowStock)
		})

		r.Get("/{id}", h.GetProduct)

		// Catalog management is admin only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})
}

// ListProducts handles product listing with filtering, sorting and pagination
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	filter := repository.ProductListFilter{}
	if v := r.URL.Query().Get("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		filter.CategoryID = &categoryID
	}
	if r.URL.Query().Get("in_stock") == "true" {
		filter.InStock = true
	}

	sortBy := r.URL.Query().Get("sort_by")
	if sortBy == "" {
		sortBy = "name"
	}
	sortOrder := repository.SortOrderAsc
	if r.URL.Query().Get("sort_order") == "desc" {
		sortOrder = repository.SortOrderDesc
	}

	products, total, err := h.productService.List(r.Context(), filter, page, pageSize, sortBy, sortOrder)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products":  products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// SearchProducts handles product search by name, description or code
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	query := r.URL.Query().Get("q")

	products, total, err := h.productService.Search(r.Context(), query, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err), zap.String("query", query))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products":  products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ListLowStock handles listing products at or below their minimum stock
func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("Failed to list low stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low stock products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles fetching a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.toInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		h.respondProductError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles product updates
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.toInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		h.respondProductError(w, err, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles product deletion
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) toInput(req ProductRequest) (service.ProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return service.ProductInput{}, errors.New("invalid category ID")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return service.ProductInput{}, errors.New("invalid supplier ID")
	}

	return service.ProductInput{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
	}, nil
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNegativeStock), errors.Is(err, service.ErrNegativePrice):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrSupplierNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrProductCodeExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Product operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func paginationParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
