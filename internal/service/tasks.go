package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	ProjectID         uuid.UUID
	CategoryID        *uuid.UUID
	Title             string
	Description       string
	Status            models.WorkStatus
	Priority          models.Priority
	DueDate           *time.Time
	Tags              []string
	EstimatedDuration *int
	ActualDuration    int
}

type UpdateTaskInput struct {
	CategoryID        *uuid.UUID
	Title             *string
	Description       *string
	Status            *models.WorkStatus
	Priority          *models.Priority
	DueDate           *time.Time
	Tags              []string
	EstimatedDuration *int
	ActualDuration    *int
}

const invalidWorkStatus = "must be one of Not Started, In Progress, Completed"

// applyTaskStatus moves a task to status and keeps end_date consistent with
// it: set on completion (kept if already set), cleared otherwise.
func applyTaskStatus(task *models.Task, status models.WorkStatus, now time.Time) {
	task.Status = status
	if status == models.StatusCompleted {
		if task.EndDate == nil {
			task.EndDate = &now
		}
		return
	}
	task.EndDate = nil
}

// checkCategory accepts a global category or one of the tenant's own.
func checkCategory(tx *gorm.DB, customerID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if err := requireRow(tx, &models.Category{},
		"id = ? AND (customer_id = ? OR customer_id IS NULL)", *categoryID, customerID); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	return nil
}

func loadTask(tx *gorm.DB, customerID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := tx.Where("customer_id = ?", customerID).First(&task, "id = ?", taskID).Error; err != nil {
		return nil, fmt.Errorf("task: %w", notFound(err))
	}
	return &task, nil
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*repository.TaskRecord, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceTask)
	if err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, apperr.Invalid("status", invalidWorkStatus)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperr.Invalid("priority", "must be one of Low, Medium, High")
	}

	task := models.Task{
		CustomerID:        actor.CustomerID,
		ProjectID:         in.ProjectID,
		CategoryID:        in.CategoryID,
		Title:             in.Title,
		Description:       in.Description,
		Priority:          in.Priority,
		DueDate:           utcPtr(in.DueDate),
		Tags:              datatypes.JSONSlice[string](in.Tags),
		EstimatedDuration: in.EstimatedDuration,
		ActualDuration:    in.ActualDuration,
	}
	applyTaskStatus(&task, in.Status, s.clock())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Project{},
			"id = ? AND customer_id = ? AND is_archived = ?", in.ProjectID, actor.CustomerID, false); err != nil {
			return fmt.Errorf("project: %w", err)
		}
		if err := checkCategory(tx, actor.CustomerID, in.CategoryID); err != nil {
			return err
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"project_id", task.ProjectID,
		"user_id", actor.UserID,
	)
	s.notify(ctx, actor.CustomerID, task.ProjectID)
	return s.repo.GetTask(ctx, task.ID)
}

func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*repository.TaskRecord, error) {
	actor, _, err := authorize(ctx, policy.OpUpdate, policy.ResourceTask)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalid("status", invalidWorkStatus)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperr.Invalid("priority", "must be one of Low, Medium, High")
	}

	var projectID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := loadTask(tx, actor.CustomerID, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		if in.CategoryID != nil {
			if err := checkCategory(tx, actor.CustomerID, in.CategoryID); err != nil {
				return err
			}
			task.CategoryID = in.CategoryID
		}
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Status != nil {
			applyTaskStatus(task, *in.Status, s.clock())
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.DueDate != nil {
			task.DueDate = utcPtr(in.DueDate)
		}
		if in.Tags != nil {
			task.Tags = datatypes.JSONSlice[string](in.Tags)
		}
		if in.EstimatedDuration != nil {
			task.EstimatedDuration = in.EstimatedDuration
		}
		if in.ActualDuration != nil {
			task.ActualDuration = *in.ActualDuration
		}
		return tx.Save(task).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "task_id", id, "user_id", actor.UserID)
	s.notify(ctx, actor.CustomerID, projectID)
	return s.repo.GetTask(ctx, id)
}

// DeleteTask removes a task with its subtasks, the time logged against them
// and every dependency pointing at any of them.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	actor, _, err := authorize(ctx, policy.OpDelete, policy.ResourceTask)
	if err != nil {
		return err
	}

	var projectID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := loadTask(tx, actor.CustomerID, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		var subtaskIDs []uuid.UUID
		if err := tx.Model(&models.Subtask{}).Where("task_id = ?", id).Pluck("id", &subtaskIDs).Error; err != nil {
			return err
		}

		deps := tx.Where("task_id = ? OR depends_on_task_id = ?", id, id)
		if len(subtaskIDs) > 0 {
			if err := tx.Where("subtask_id IN ?", subtaskIDs).Delete(&models.TimeEntry{}).Error; err != nil {
				return err
			}
			deps = tx.Where("task_id = ? OR depends_on_task_id = ? OR depends_on_subtask_id IN ?", id, id, subtaskIDs)
		}
		if err := deps.Delete(&models.Dependency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", "task_id", id, "user_id", actor.UserID)
	s.notify(ctx, actor.CustomerID, projectID)
	return nil
}
