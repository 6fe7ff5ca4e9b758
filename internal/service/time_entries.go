package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/stats"
	"gorm.io/gorm"
)

type TimeEntryInput struct {
	SubtaskID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	// Duration in minutes; must match the span between StartTime and EndTime.
	Duration int64
	Notes    *string
}

func (in TimeEntryInput) validate() error {
	if !in.EndTime.After(in.StartTime) {
		return apperr.Invalid("end_time", "must be after start_time")
	}
	want := stats.ElapsedMinutes(in.EndTime.Sub(in.StartTime).Seconds())
	if in.Duration != want {
		return apperr.Invalid("duration",
			fmt.Sprintf("duration (%d) does not match start and end times (%d)", in.Duration, want))
	}
	return nil
}

func (s *Service) CreateTimeEntry(ctx context.Context, in TimeEntryInput) (*models.TimeEntry, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceTimeEntry)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	entry := models.TimeEntry{
		CustomerID: actor.CustomerID,
		UserID:     actor.UserID,
		SubtaskID:  in.SubtaskID,
		StartTime:  in.StartTime.UTC(),
		EndTime:    in.EndTime.UTC(),
		Duration:   in.Duration,
		Notes:      in.Notes,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := loadSubtask(tx, actor.CustomerID, in.SubtaskID); err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("time entry created",
		"time_entry_id", entry.ID,
		"subtask_id", entry.SubtaskID,
		"duration", entry.Duration,
		"user_id", actor.UserID,
	)
	return &entry, nil
}

// UpdateTimeEntry replaces an entry's subtask, span and notes. Team members
// may only touch their own entries.
func (s *Service) UpdateTimeEntry(ctx context.Context, id uuid.UUID, in TimeEntryInput) (*models.TimeEntry, error) {
	actor, scope, err := authorize(ctx, policy.OpUpdate, policy.ResourceTimeEntry)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var entry models.TimeEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", actor.CustomerID).First(&entry, "id = ?", id).Error; err != nil {
			return fmt.Errorf("time entry: %w", notFound(err))
		}
		if scope == policy.ScopeSelf && entry.UserID != actor.UserID {
			return fmt.Errorf("not the entry owner: %w", apperr.ErrForbidden)
		}
		if _, _, err := loadSubtask(tx, actor.CustomerID, in.SubtaskID); err != nil {
			return err
		}

		entry.SubtaskID = in.SubtaskID
		entry.StartTime = in.StartTime.UTC()
		entry.EndTime = in.EndTime.UTC()
		entry.Duration = in.Duration
		entry.Notes = in.Notes
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("time entry updated", "time_entry_id", id, "user_id", actor.UserID)
	return &entry, nil
}
