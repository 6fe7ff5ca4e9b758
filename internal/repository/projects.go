package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/stats"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

func (r *Repository) projectScope(ctx context.Context, actor tenant.Actor, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).
		Where("projects.customer_id = ?", actor.CustomerID).
		Where("projects.is_archived = ?", false)
	if scope == policy.ScopeManagedProjects {
		q = q.Where("projects.project_manager_id = ?", actor.UserID)
	}
	return q
}

// ListProjects returns the caller's non-archived projects, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]models.Project, error) {
	actor, scope, err := authorize(ctx, policy.OpList, policy.ResourceProject)
	if err != nil {
		return nil, err
	}

	projects := []models.Project{}
	if err := r.projectScope(ctx, actor, scope).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject applies the listing scope to a single project.
func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	actor, scope, err := authorize(ctx, policy.OpView, policy.ResourceProject)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := r.projectScope(ctx, actor, scope).
		First(&project, "projects.id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// ProjectStats counts the project's tasks and subtasks for the caller's tenant.
func (r *Repository) ProjectStats(ctx context.Context, projectID uuid.UUID) (stats.ProjectStats, error) {
	actor, _, err := authorize(ctx, policy.OpReport, policy.ResourceProject)
	if err != nil {
		return stats.ProjectStats{}, err
	}
	if err := r.projectExists(ctx, actor.CustomerID, projectID); err != nil {
		return stats.ProjectStats{}, err
	}
	return r.ProjectCounts(ctx, actor.CustomerID, projectID)
}

// ProjectCounts is the unscoped aggregate behind ProjectStats, used by
// background jobs that already know the tenant.
func (r *Repository) ProjectCounts(ctx context.Context, customerID, projectID uuid.UUID) (stats.ProjectStats, error) {
	var tasks int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("customer_id = ? AND project_id = ?", customerID, projectID).
		Count(&tasks).Error; err != nil {
		return stats.ProjectStats{}, err
	}

	var row struct {
		Total     int64
		Completed int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Subtask{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN subtasks.status = ? THEN 1 ELSE 0 END), 0) AS completed", models.StatusCompleted).
		Joins("JOIN tasks ON tasks.id = subtasks.task_id").
		Where("tasks.customer_id = ? AND tasks.project_id = ?", customerID, projectID).
		Scan(&row).Error; err != nil {
		return stats.ProjectStats{}, err
	}

	return stats.NewProjectStats(tasks, row.Total, row.Completed), nil
}

// TimeSpentMinutes sums the logged minutes on every subtask of the project.
func (r *Repository) TimeSpentMinutes(ctx context.Context, customerID, projectID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(time_entries.duration), 0)").
		Joins("JOIN subtasks ON subtasks.id = time_entries.subtask_id").
		Joins("JOIN tasks ON tasks.id = subtasks.task_id").
		Where("time_entries.customer_id = ? AND tasks.project_id = ?", customerID, projectID).
		Scan(&total).Error
	return total, err
}

// ProjectMetrics lists recorded snapshots for a project, newest first.
func (r *Repository) ProjectMetrics(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMetric, error) {
	actor, _, err := authorize(ctx, policy.OpReport, policy.ResourceProject)
	if err != nil {
		return nil, err
	}
	if err := r.projectExists(ctx, actor.CustomerID, projectID); err != nil {
		return nil, err
	}

	metrics := []models.ProjectMetric{}
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("recorded_at DESC").
		Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// ActiveProjects lists every non-archived project across all tenants.
func (r *Repository) ActiveProjects(ctx context.Context) ([]ProjectKey, error) {
	var rows []struct {
		ID         uuid.UUID
		CustomerID uuid.UUID
	}
	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Select("id, customer_id").
		Where("is_archived = ?", false).
		Order("created_at").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	keys := make([]ProjectKey, len(rows))
	for i, row := range rows {
		keys[i] = ProjectKey{CustomerID: row.CustomerID, ProjectID: row.ID}
	}
	return keys, nil
}

func (r *Repository) projectExists(ctx context.Context, customerID, projectID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND customer_id = ?", projectID, customerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
