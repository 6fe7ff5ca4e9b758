package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateSubtaskInput struct {
	TaskID            uuid.UUID
	Title             string
	Description       string
	Status            models.WorkStatus
	AssignedUserID    *uuid.UUID
	AssignedTeamID    *uuid.UUID
	DueDate           *time.Time
	Tags              []string
	EstimatedDuration *int
}

type UpdateSubtaskInput struct {
	Title          *string
	Description    *string
	Status         *models.WorkStatus
	AssignedUserID *uuid.UUID
	AssignedTeamID *uuid.UUID
	// Clear* drop the assignment; they take precedence over the IDs above.
	ClearAssignedUser bool
	ClearAssignedTeam bool
	DueDate           *time.Time
	Tags              []string
	EstimatedDuration *int
}

func checkAssignees(tx *gorm.DB, customerID uuid.UUID, userID, teamID *uuid.UUID) error {
	if userID != nil {
		if err := requireRow(tx, &models.User{}, "id = ? AND customer_id = ?", *userID, customerID); err != nil {
			return fmt.Errorf("assigned user: %w", err)
		}
	}
	if teamID != nil {
		if err := requireRow(tx, &models.Team{}, "id = ? AND customer_id = ?", *teamID, customerID); err != nil {
			return fmt.Errorf("assigned team: %w", err)
		}
	}
	return nil
}

// activateTask is the cascade run when a subtask leaves Not Started: the
// parent gets a start_date if it has none and is promoted to In Progress if it
// has not started yet.
func activateTask(tx *gorm.DB, taskID uuid.UUID, now time.Time) error {
	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if task.StartDate == nil {
		updates["start_date"] = now
	}
	if task.Status == models.StatusNotStarted {
		updates["status"] = models.StatusInProgress
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&task).Updates(updates).Error
}

// loadSubtask resolves a subtask through its parent task's tenant and returns
// both.
func loadSubtask(tx *gorm.DB, customerID, subtaskID uuid.UUID) (*models.Subtask, *models.Task, error) {
	var st models.Subtask
	if err := tx.First(&st, "id = ?", subtaskID).Error; err != nil {
		return nil, nil, fmt.Errorf("subtask: %w", notFound(err))
	}
	task, err := loadTask(tx, customerID, st.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return &st, task, nil
}

func (s *Service) CreateSubtask(ctx context.Context, in CreateSubtaskInput) (*models.Subtask, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceSubtask)
	if err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, apperr.Invalid("status", invalidWorkStatus)
	}

	subtask := models.Subtask{
		TaskID:            in.TaskID,
		Title:             in.Title,
		Description:       in.Description,
		Status:            in.Status,
		AssignedUserID:    in.AssignedUserID,
		AssignedTeamID:    in.AssignedTeamID,
		DueDate:           utcPtr(in.DueDate),
		Tags:              datatypes.JSONSlice[string](in.Tags),
		EstimatedDuration: in.EstimatedDuration,
	}

	var projectID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := loadTask(tx, actor.CustomerID, in.TaskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID
		if err := checkAssignees(tx, actor.CustomerID, in.AssignedUserID, in.AssignedTeamID); err != nil {
			return err
		}
		if err := tx.Create(&subtask).Error; err != nil {
			return err
		}
		if subtask.Status != models.StatusNotStarted {
			return activateTask(tx, task.ID, s.clock())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subtask created",
		"subtask_id", subtask.ID,
		"task_id", subtask.TaskID,
		"user_id", actor.UserID,
	)
	s.notify(ctx, actor.CustomerID, projectID)
	return &subtask, nil
}

// UpdateSubtask applies the changes and, when the status moves away from Not
// Started, activates the parent task in the same transaction.
func (s *Service) UpdateSubtask(ctx context.Context, id uuid.UUID, in UpdateSubtaskInput) (*models.Subtask, error) {
	actor, _, err := authorize(ctx, policy.OpUpdate, policy.ResourceSubtask)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalid("status", invalidWorkStatus)
	}

	var (
		subtask   *models.Subtask
		projectID uuid.UUID
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, task, err := loadSubtask(tx, actor.CustomerID, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		if err := checkAssignees(tx, actor.CustomerID, in.AssignedUserID, in.AssignedTeamID); err != nil {
			return err
		}

		statusChanged := in.Status != nil && *in.Status != st.Status
		if in.Title != nil {
			st.Title = *in.Title
		}
		if in.Description != nil {
			st.Description = *in.Description
		}
		if in.Status != nil {
			st.Status = *in.Status
		}
		switch {
		case in.ClearAssignedUser:
			st.AssignedUserID = nil
		case in.AssignedUserID != nil:
			st.AssignedUserID = in.AssignedUserID
		}
		switch {
		case in.ClearAssignedTeam:
			st.AssignedTeamID = nil
		case in.AssignedTeamID != nil:
			st.AssignedTeamID = in.AssignedTeamID
		}
		if in.DueDate != nil {
			st.DueDate = utcPtr(in.DueDate)
		}
		if in.Tags != nil {
			st.Tags = datatypes.JSONSlice[string](in.Tags)
		}
		if in.EstimatedDuration != nil {
			st.EstimatedDuration = in.EstimatedDuration
		}

		if err := tx.Save(st).Error; err != nil {
			return err
		}
		subtask = st
		if statusChanged && st.Status != models.StatusNotStarted {
			return activateTask(tx, st.TaskID, s.clock())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subtask updated",
		"subtask_id", id,
		"status", subtask.Status,
		"user_id", actor.UserID,
	)
	s.notify(ctx, actor.CustomerID, projectID)
	return subtask, nil
}

func (s *Service) DeleteSubtask(ctx context.Context, id uuid.UUID) error {
	actor, _, err := authorize(ctx, policy.OpDelete, policy.ResourceSubtask)
	if err != nil {
		return err
	}

	var projectID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, task, err := loadSubtask(tx, actor.CustomerID, id)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		if err := tx.Where("subtask_id = ?", id).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("depends_on_subtask_id = ?", id).Delete(&models.Dependency{}).Error; err != nil {
			return err
		}
		return tx.Delete(st).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("subtask deleted", "subtask_id", id, "user_id", actor.UserID)
	s.notify(ctx, actor.CustomerID, projectID)
	return nil
}
