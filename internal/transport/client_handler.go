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
	"go.uber.org/zap"
)

// UpdateClientRequest represents the client update payload
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Verified *bool   `json:"verified"`
}

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// RegisterRoutes registers all client routes. Staff manage the client
// directory; customers manage their own profile.
func (h *ClientHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff func(http.Handler) http.Handler) {
	r.Route("/api/clients", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			r.Get("/", h.ListClients)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
		})
	})

	r.Route("/api/profile", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetProfile)
		r.Put("/", h.UpdateProfile)
	})
}

// ListClients handles listing all clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, clients)
}

// GetClient handles fetching a single client
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	client, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

// UpdateClient handles client updates by staff
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	h.updateClient(w, r, id, true)
}

// GetProfile handles a customer fetching their own profile
func (h *ClientHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok || viewer.Role != domain.RoleCustomer {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	client, err := h.clientService.Get(r.Context(), viewer.ID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

// UpdateProfile handles a customer updating their own profile
func (h *ClientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok || viewer.Role != domain.RoleCustomer {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	h.updateClient(w, r, viewer.ID, false)
}

func (h *ClientHandler) updateClient(w http.ResponseWriter, r *http.Request, id uuid.UUID, staff bool) {
	var req UpdateClientRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.ClientUpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	// The verified flag is a staff decision
	if staff {
		input.Verified = req.Verified
	}

	client, err := h.clientService.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClientNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
		case errors.Is(err, repository.ErrClientAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "client with this email already exists")
		default:
			h.logger.Error("Failed to update client", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update client")
		}
		return
	}

	h.logger.Info("Client updated", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, client)
}
