package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"parts-store/internal/middleware"
	"parts-store/internal/repository"
	"parts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterStaffRequest represents the staff registration request payload
type RegisterStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin salesperson"`
}

// RegisterClientRequest represents the customer registration request payload
type RegisterClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Account      Account `json:"account"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Account represents the authenticated identity in responses
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers all authentication routes. The credential
// endpoints are rate limited to slow down guessing.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/register", h.RegisterClient)
			r.Post("/login", h.LoginClient)
			r.Post("/staff/login", h.LoginStaff)
			r.Post("/refresh", h.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
		})

		// Staff accounts are created by admins only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Post("/staff/register", h.RegisterStaff)
		})
	})
}

// RegisterStaff handles staff account creation
func (h *AuthHandler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req RegisterStaffRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Staff registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.RegisterStaff(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.logger.Error("Staff registration failed", zap.Error(err))

		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		if errors.Is(err, service.ErrInvalidRole) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid staff role")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("Staff account registered", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	middleware.RespondWithJSON(w, http.StatusCreated, Account{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// RegisterClient handles customer self-registration
func (h *AuthHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req RegisterClientRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.authService.RegisterClient(r.Context(), req.Name, req.Email, req.Password, req.Phone, req.Address)
	if err != nil {
		h.logger.Error("Client registration failed", zap.Error(err))

		if errors.Is(err, repository.ErrClientAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "client with this email already exists")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register client")
		return
	}

	h.logger.Info("Client registered", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, Account{
		ID:    client.ID.String(),
		Name:  client.Name,
		Email: client.Email,
		Role:  "customer",
	})
}

// LoginStaff handles staff authentication
func (h *AuthHandler) LoginStaff(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Staff login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, user, err := h.authService.LoginStaff(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Staff login failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if errors.Is(err, service.ErrAccountInactive) {
			middleware.RespondWithError(w, http.StatusForbidden, "account is inactive")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Staff logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account: Account{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// LoginClient handles customer authentication
func (h *AuthHandler) LoginClient(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, client, err := h.authService.LoginClient(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Client login failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Client logged in", zap.String("client_id", client.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account: Account{
			ID:    client.ID.String(),
			Name:  client.Name,
			Email: client.Email,
			Role:  "customer",
		},
	})
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	h.logger.Info("Logged out")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newAccessToken, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidToken) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		if errors.Is(err, service.ErrTokenExpired) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
			return
		}
		if errors.Is(err, service.ErrAccountInactive) {
			middleware.RespondWithError(w, http.StatusForbidden, "account is inactive")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}
