package repository

import (
	"context"

	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
)

// ListCategories returns the tenant's categories and the global ones.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	actor, _, err := authorize(ctx, policy.OpList, policy.ResourceCategory)
	if err != nil {
		return nil, err
	}

	categories := []models.Category{}
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? OR customer_id IS NULL", actor.CustomerID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
