package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	userID := uuid.New()
	customerID := uuid.New()
	role := "Project Manager"

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, customerID, role)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, customerID, claims.CustomerID)
		assert.Equal(t, role, claims.Role)
		assert.NotNil(t, claims.IssuedAt)
		assert.NotNil(t, claims.ExpiresAt)
	})

	t.Run("token contains issuer and subject", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, customerID, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "go-planner", claims.Issuer)
		assert.Equal(t, userID.String(), claims.Subject)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	userID := uuid.New()
	customerID := uuid.New()
	role := "Admin"

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond)

		token, err := jwtService.GenerateToken(userID, customerID, role)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrExpiredToken, err)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		token, err := jwtService.GenerateToken(userID, customerID, role)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token + "tampered")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		jwtService1 := auth.NewJWTService("secret-1", 24*time.Hour)
		jwtService2 := auth.NewJWTService("secret-2", 24*time.Hour)

		token, err := jwtService1.GenerateToken(userID, customerID, role)
		require.NoError(t, err)

		_, err = jwtService2.ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects malformed and empty tokens", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		_, err := jwtService.ValidateToken("not-a-valid-jwt")
		assert.Equal(t, auth.ErrInvalidToken, err)

		_, err = jwtService.ValidateToken("")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})
}

func TestJWTService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()
	customerID := uuid.New()

	token, err := jwtService.GenerateToken(userID, customerID, "Team Member")
	require.NoError(t, err)

	refreshed, err := jwtService.Refresh(token)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, customerID, claims.CustomerID)
	assert.Equal(t, "Team Member", claims.Role)

	_, err = jwtService.Refresh("garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestJWTService_DifferentRoles(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	for _, role := range []string{"Admin", "Project Manager", "Team Member"} {
		t.Run("handles "+role+" role", func(t *testing.T) {
			token, err := jwtService.GenerateToken(uuid.New(), uuid.New(), role)
			require.NoError(t, err)

			claims, err := jwtService.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, role, claims.Role)
		})
	}
}
