package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
)

type TimeEntryFilter struct {
	ProjectID *uuid.UUID
	// From keeps entries starting at or after it; To keeps entries ending at or before it.
	From *time.Time
	To   *time.Time
}

func (r *Repository) ListTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	actor, scope, err := authorize(ctx, policy.OpList, policy.ResourceTimeEntry)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Where("time_entries.customer_id = ?", actor.CustomerID)
	if scope == policy.ScopeSelf {
		q = q.Where("time_entries.user_id = ?", actor.UserID)
	}
	if filter.ProjectID != nil {
		q = q.Joins("JOIN subtasks ON subtasks.id = time_entries.subtask_id").
			Joins("JOIN tasks ON tasks.id = subtasks.task_id").
			Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.From != nil {
		q = q.Where("time_entries.start_time >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("time_entries.end_time <= ?", filter.To.UTC())
	}

	entries := []models.TimeEntry{}
	if err := q.Order("time_entries.start_time DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
