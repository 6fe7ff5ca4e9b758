package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/stats"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

type TaskFilter struct {
	ProjectID *uuid.UUID
}

func (r *Repository) taskScope(ctx context.Context, actor tenant.Actor, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Where("tasks.customer_id = ?", actor.CustomerID)
	if scope == policy.ScopeAssignedTasks {
		assigned := r.db.Model(&models.Subtask{}).
			Select("task_id").
			Where("assigned_user_id = ?", actor.UserID)
		q = q.Where("tasks.id IN (?)", assigned)
	}
	return q
}

// ListTasks returns the visible tasks with their subtasks attached.
func (r *Repository) ListTasks(ctx context.Context, filter TaskFilter) ([]TaskRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpList, policy.ResourceTask)
	if err != nil {
		return nil, err
	}

	q := r.taskScope(ctx, actor, scope)
	if filter.ProjectID != nil {
		q = q.Where("tasks.project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task
	if err := q.Order("tasks.created_at ASC").Order("tasks.id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return r.assembleTasks(ctx, tasks)
}

// GetTask fetches one task under the same scope as ListTasks.
func (r *Repository) GetTask(ctx context.Context, id uuid.UUID) (*TaskRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpView, policy.ResourceTask)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := r.taskScope(ctx, actor, scope).First(&task, "tasks.id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	records, err := r.assembleTasks(ctx, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

// assembleTasks loads the subtasks of every task in one query.
func (r *Repository) assembleTasks(ctx context.Context, tasks []models.Task) ([]TaskRecord, error) {
	records := make([]TaskRecord, len(tasks))
	if len(tasks) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	var subtasks []models.Subtask
	if err := r.db.WithContext(ctx).
		Where("task_id IN ?", ids).
		Order("created_at ASC").Order("id").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}

	byTask := make(map[uuid.UUID][]models.Subtask, len(tasks))
	for _, s := range subtasks {
		byTask[s.TaskID] = append(byTask[s.TaskID], s)
	}

	for i, t := range tasks {
		children := byTask[t.ID]
		if children == nil {
			children = []models.Subtask{}
		}
		counts := stats.SubtaskCounts{Total: int64(len(children))}
		for _, s := range children {
			if s.Status == models.StatusCompleted {
				counts.Completed++
			}
		}
		records[i] = TaskRecord{
			Task:                   t,
			Subtasks:               children,
			CompletedSubtasksCount: counts.Completed,
			TotalSubtasksCount:     counts.Total,
			CompletionPercentage:   counts.Percentage(),
		}
	}
	return records, nil
}

// ListDependencies returns the dependencies of a task the caller can see.
func (r *Repository) ListDependencies(ctx context.Context, taskID uuid.UUID) ([]models.Dependency, error) {
	actor, scope, err := authorize(ctx, policy.OpList, policy.ResourceDependency)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.taskScope(ctx, actor, scope).Model(&models.Task{}).
		Where("tasks.id = ?", taskID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFound(gorm.ErrRecordNotFound)
	}

	deps := []models.Dependency{}
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&deps).Error; err != nil {
		return nil, err
	}
	return deps, nil
}
