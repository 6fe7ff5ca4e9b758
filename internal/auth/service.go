package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	ErrUserExists         = fmt.Errorf("user with this email or username already exists: %w", apperr.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
)

const defaultCompanyName = "Personal"

type Service struct {
	db     *gorm.DB
	jwt    *JWTService
	logger *slog.Logger
}

func NewService(db *gorm.DB, jwt *JWTService, logger *slog.Logger) *Service {
	return &Service{db: db, jwt: jwt, logger: logger}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Role        string
	CompanyName string // used only when no customer owns the email domain
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates the user inside the customer that owns the email's domain,
// creating that customer first when none exists.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	role, err := tenant.ParseRole(input.Role)
	if err != nil {
		return nil, apperr.Invalid("role", "must be one of Admin, Project Manager, Team Member")
	}
	domain := emailDomain(input.Email)
	if domain == "" {
		return nil, apperr.Invalid("email", "invalid email format")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", input.Email, input.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}

		var customer models.Customer
		err := tx.Where("domain = ?", domain).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			name := strings.TrimSpace(input.CompanyName)
			if name == "" {
				name = defaultCompanyName
			}
			customer = models.Customer{
				Name:         name,
				ContactEmail: input.Email,
				Domain:       &domain,
				Plan:         models.PlanBasic,
				TimeZone:     "UTC",
			}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		user = models.User{
			CustomerID:   customer.ID,
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Role:         role,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "customer_id", user.CustomerID, "role", user.Role.String())
	return &user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.CustomerID, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
