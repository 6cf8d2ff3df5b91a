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

// UpdateStaffRequest represents the staff account update payload
type UpdateStaffRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin salesperson"`
	Active *bool   `json:"active"`
}

// StaffHandler handles HTTP requests for staff account management
type StaffHandler struct {
	staffService service.StaffService
	logger       *zap.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService service.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		logger:       logger,
	}
}

// RegisterRoutes registers all staff management routes. Staff accounts
// are administered by admins only.
func (h *StaffHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/staff", func(r chi.Router) {
		r.Use(authMiddleware, requireAdmin)

		r.Get("/", h.ListStaff)
		r.Get("/{id}", h.GetStaff)
		r.Put("/{id}", h.UpdateStaff)
	})
}

// ListStaff handles listing all staff accounts
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	users, err := h.staffService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list staff", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// GetStaff handles fetching a single staff account
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.staffService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to get staff account", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get staff account")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateStaff handles staff account updates, including deactivation
func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req UpdateStaffRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Staff update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.staffService.Update(r.Context(), id, service.StaffUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrUserAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		case errors.Is(err, service.ErrInvalidRole):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid staff role")
		default:
			h.logger.Error("Failed to update staff account", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update staff account")
		}
		return
	}

	h.logger.Info("Staff account updated",
		zap.String("user_id", user.ID.String()),
		zap.Bool("active", user.Active),
	)
	middleware.RespondWithJSON(w, http.StatusOK, user)
}
