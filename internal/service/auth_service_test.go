package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	lastLogin map[string]time.Time
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogin == nil {
		m.lastLogin = make(map[string]time.Time)
	}
	m.lastLogin[id] = ts
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "admin@academy.test", PasswordHash: string(hash), FullName: "Admin", Role: models.RoleAdmin, Active: true},
		"u2": {ID: "u2", Email: "former@academy.test", PasswordHash: string(hash), Active: false},
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "academy-admin-api",
	})
	return svc, repo
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, models.LoginRequest{Email: "admin@academy.test", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "u1", resp.User.ID)
		assert.Contains(t, repo.lastLogin, "u1")

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "admin@academy.test", Password: "nope"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials.Code))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "nobody@academy.test", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials.Code))
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "former@academy.test", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInactiveAccount.Code))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Email: "admin@academy.test"})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	})
}

func TestValidateToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))

	other := NewAuthService(&mockUserRepo{}, nil, nil, AuthConfig{Secret: "different", Expiration: time.Hour})
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@academy.test", Password: "secret123"})
	require.NoError(t, err)
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
