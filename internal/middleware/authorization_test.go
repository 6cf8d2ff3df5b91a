package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"parts-store/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		role       string
		wantStatus int
	}{
		{"admin passes admin gate", RequireAdmin(zap.NewNop()), domain.RoleAdmin, http.StatusOK},
		{"salesperson blocked by admin gate", RequireAdmin(zap.NewNop()), domain.RoleSalesperson, http.StatusForbidden},
		{"customer blocked by admin gate", RequireAdmin(zap.NewNop()), domain.RoleCustomer, http.StatusForbidden},
		{"admin passes staff gate", RequireStaff(zap.NewNop()), domain.RoleAdmin, http.StatusOK},
		{"salesperson passes staff gate", RequireStaff(zap.NewNop()), domain.RoleSalesperson, http.StatusOK},
		{"customer blocked by staff gate", RequireStaff(zap.NewNop()), domain.RoleCustomer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, requestWithRole(tt.role))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireRole_MissingRoleIsForbidden(t *testing.T) {
	handler := RequireAdmin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
