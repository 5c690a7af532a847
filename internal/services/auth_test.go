package services_test

import (
	"context"
	"testing"

	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_EnsureAdminAndLogin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.auth.EnsureAdmin(ctx, "Owner@Example.com", "s3cret-pass"))
	// second call keeps the existing account
	require.NoError(t, f.auth.EnsureAdmin(ctx, "owner@example.com", "other"))

	token, expiresAt, user, err := f.auth.Login(ctx, "owner@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.False(t, expiresAt.IsZero())

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	_, _, _, err = f.auth.Login(ctx, "owner@example.com", "other")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, _, err = f.auth.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_EnsureAdminSkipsWithoutCredentials(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.auth.EnsureAdmin(context.Background(), "", ""))
}
