package service

import (
	"context"
	"regexp"

	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type CreateCategoryInput struct {
	Name  string
	Color string
}

// CreateCategory adds a category owned by the caller's tenant.
func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceCategory)
	if err != nil {
		return nil, err
	}
	if !hexColor.MatchString(in.Color) {
		return nil, apperr.Invalid("color", "must be a hex color like #1a2b3c")
	}

	customerID := actor.CustomerID
	category := models.Category{
		CustomerID: &customerID,
		Name:       in.Name,
		Color:      in.Color,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", category.ID, "user_id", actor.UserID)
	return &category, nil
}
