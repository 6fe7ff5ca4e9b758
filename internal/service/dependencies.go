package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"gorm.io/gorm"
)

type DependencyInput struct {
	DependsOnTaskID    *uuid.UUID
	DependsOnSubtaskID *uuid.UUID
}

// AddDependency records that taskID waits on exactly one other task or
// subtask of the same tenant.
func (s *Service) AddDependency(ctx context.Context, taskID uuid.UUID, in DependencyInput) (*models.Dependency, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceDependency)
	if err != nil {
		return nil, err
	}

	dep := models.Dependency{
		TaskID:             taskID,
		DependsOnTaskID:    in.DependsOnTaskID,
		DependsOnSubtaskID: in.DependsOnSubtaskID,
	}
	if err := dep.Validate(); err != nil {
		return nil, apperr.Invalid("depends_on", err.Error())
	}
	if in.DependsOnTaskID != nil && *in.DependsOnTaskID == taskID {
		return nil, apperr.Invalid("depends_on_task_id", "a task cannot depend on itself")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadTask(tx, actor.CustomerID, taskID); err != nil {
			return err
		}

		existing := tx.Model(&models.Dependency{}).Where("task_id = ?", taskID)
		if in.DependsOnTaskID != nil {
			if _, err := loadTask(tx, actor.CustomerID, *in.DependsOnTaskID); err != nil {
				return fmt.Errorf("depends on %w", err)
			}
			existing = existing.Where("depends_on_task_id = ?", *in.DependsOnTaskID)
		} else {
			if _, _, err := loadSubtask(tx, actor.CustomerID, *in.DependsOnSubtaskID); err != nil {
				return fmt.Errorf("depends on %w", err)
			}
			existing = existing.Where("depends_on_subtask_id = ?", *in.DependsOnSubtaskID)
		}

		var count int64
		if err := existing.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("dependency already exists: %w", apperr.ErrConflict)
		}
		return tx.Create(&dep).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dependency added", "dependency_id", dep.ID, "task_id", taskID, "user_id", actor.UserID)
	return &dep, nil
}

func (s *Service) RemoveDependency(ctx context.Context, taskID, dependencyID uuid.UUID) error {
	actor, _, err := authorize(ctx, policy.OpDelete, policy.ResourceDependency)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadTask(tx, actor.CustomerID, taskID); err != nil {
			return err
		}
		result := tx.Where("id = ? AND task_id = ?", dependencyID, taskID).Delete(&models.Dependency{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("dependency: %w", apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("dependency removed", "dependency_id", dependencyID, "task_id", taskID, "user_id", actor.UserID)
	return nil
}
