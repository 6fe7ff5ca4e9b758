package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *tenant.Role
}

// UpdateUser edits a profile. Team members may only edit themselves and only
// admins may change a role.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*repository.UserRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpUpdate, policy.ResourceUser)
	if err != nil {
		return nil, err
	}
	if scope == policy.ScopeSelf && id != actor.UserID {
		return nil, apperr.ErrForbidden
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Invalid("role", "must be one of Admin, Project Manager, Team Member")
		}
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("only admins may change roles: %w", apperr.ErrForbidden)
		}
	}

	var hash string
	if in.Password != nil {
		if hash, err = auth.HashPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("customer_id = ?", actor.CustomerID).First(&user, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		updates := map[string]interface{}{}
		if in.Username != nil && *in.Username != user.Username {
			if err := unique(tx, "username", *in.Username, id); err != nil {
				return err
			}
			updates["username"] = *in.Username
		}
		if in.Email != nil && *in.Email != user.Email {
			if err := unique(tx, "email", *in.Email, id); err != nil {
				return err
			}
			updates["email"] = *in.Email
		}
		if hash != "" {
			updates["password_hash"] = hash
		}
		if in.Role != nil {
			updates["role"] = *in.Role
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "target_user_id", id, "user_id", actor.UserID)
	return s.repo.GetUser(ctx, id)
}

func unique(tx *gorm.DB, column, value string, except uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, except).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%s already taken: %w", column, apperr.ErrConflict)
	}
	return nil
}
