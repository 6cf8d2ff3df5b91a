package service

import (
	"context"
	"testing"
	"time"

	"parts-store/internal/domain"
	"parts-store/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newAuthFixture() (AuthService, *mockUserRepository, *mockClientRepository, *mockRefreshTokenRepository) {
	userRepo := newMockUserRepository()
	clientRepo := newMockClientRepository()
	tokenRepo := newMockRefreshTokenRepository()
	svc := NewAuthService(userRepo, clientRepo, tokenRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	return svc, userRepo, clientRepo, tokenRepo
}

func TestProperty_RegistrationHashesPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stored password hashes verify against the plaintext", prop.ForAll(
		func(name, password string) bool {
			svc, _, _, _ := newAuthFixture()

			client, err := svc.RegisterClient(context.Background(), name, name+"@example.com", password, "", "")
			if err != nil {
				return true
			}

			if client.PasswordHash == password {
				t.Log("FAIL: password stored as plaintext")
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)) == nil
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) >= 8 }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegisterStaff_RejectsCustomerRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.RegisterStaff(context.Background(), "Eve", "eve@example.com", "password123", domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.RegisterStaff(context.Background(), "Eve", "eve@example.com", "password123", "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginStaff_InactiveAccountIsRejected(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture()

	user, err := svc.RegisterStaff(context.Background(), "Luis", "luis@example.com", "password123", domain.RoleSalesperson)
	require.NoError(t, err)

	// Deactivate the account
	user.Active = false
	require.NoError(t, userRepo.Update(context.Background(), user))

	_, _, _, err = svc.LoginStaff(context.Background(), "luis@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginStaff_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.RegisterStaff(context.Background(), "Luis", "luis@example.com", "password123", domain.RoleSalesperson)
	require.NoError(t, err)

	_, _, _, err = svc.LoginStaff(context.Background(), "luis@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.LoginStaff(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginClient_IssuesCustomerTokens(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.RegisterClient(context.Background(), "Ana", "ana@example.com", "password123", "555-0100", "Main St 1")
	require.NoError(t, err)

	accessToken, refreshToken, client, err := svc.LoginClient(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, client.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestRefreshToken_Flow(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.RegisterStaff(context.Background(), "Luis", "luis@example.com", "password123", domain.RoleSalesperson)
	require.NoError(t, err)

	_, refreshToken, user, err := svc.LoginStaff(context.Background(), "luis@example.com", "password123")
	require.NoError(t, err)

	newAccess, err := svc.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleSalesperson, claims.Role)

	// A revoked token cannot be used again
	require.NoError(t, svc.Logout(context.Background(), refreshToken))
	_, err = svc.RefreshToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Logging out an unknown token is not an error
	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}
