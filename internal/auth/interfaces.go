package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID, customerID uuid.UUID, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	Refresh(tokenString string) (string, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
