package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/repository"
	"gorm.io/gorm"
)

// Enqueuer is the part of *asynq.Client the jobs need.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Handler processes metrics jobs.
type Handler struct {
	db     *gorm.DB
	repo   *repository.Repository
	logger *slog.Logger
	client Enqueuer
	now    func() time.Time
}

func NewHandler(db *gorm.DB, repo *repository.Repository, logger *slog.Logger, client Enqueuer) *Handler {
	return &Handler{
		db:     db,
		repo:   repo,
		logger: logger,
		client: client,
		now:    time.Now,
	}
}

// RegisterHandlers registers all task handlers with the mux
func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeProjectSnapshot, h.HandleProjectSnapshot)
	mux.HandleFunc(TypeSnapshotAll, h.HandleSnapshotAll)
}

// HandleProjectSnapshot records the completion rate and logged minutes of
// one project. Archived or vanished projects are skipped.
func (h *Handler) HandleProjectSnapshot(ctx context.Context, t *asynq.Task) error {
	var payload ProjectSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	var project models.Project
	err := h.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", payload.ProjectID, payload.CustomerID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Warn("snapshot for unknown project", "project_id", payload.ProjectID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if project.IsArchived {
		return nil
	}

	counts, err := h.repo.ProjectCounts(ctx, payload.CustomerID, payload.ProjectID)
	if err != nil {
		return fmt.Errorf("project counts: %w", err)
	}
	minutes, err := h.repo.TimeSpentMinutes(ctx, payload.CustomerID, payload.ProjectID)
	if err != nil {
		return fmt.Errorf("time spent: %w", err)
	}

	recordedAt := h.now().UTC()
	metrics := []models.ProjectMetric{
		{
			ProjectID:  project.ID,
			MetricType: models.MetricTaskCompletion,
			Value:      float64(counts.CompletionRate),
			RecordedAt: recordedAt,
		},
		{
			ProjectID:  project.ID,
			MetricType: models.MetricTimeSpent,
			Value:      float64(minutes),
			RecordedAt: recordedAt,
		},
	}
	if err := h.db.WithContext(ctx).Create(&metrics).Error; err != nil {
		return fmt.Errorf("record metrics: %w", err)
	}

	h.logger.Debug("project snapshot recorded",
		"project_id", project.ID,
		"completion_rate", counts.CompletionRate,
		"minutes", minutes,
	)
	return nil
}

// HandleSnapshotAll enqueues a snapshot for every non-archived project.
func (h *Handler) HandleSnapshotAll(ctx context.Context, t *asynq.Task) error {
	if h.client == nil {
		return fmt.Errorf("no task client configured: %w", asynq.SkipRetry)
	}

	projects, err := h.repo.ActiveProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	enqueued := 0
	for _, p := range projects {
		err := enqueueSnapshot(ctx, h.client, p.CustomerID, p.ProjectID, asynq.Queue(QueueLow))
		if err != nil {
			h.logger.Error("failed to enqueue snapshot", "project_id", p.ProjectID, "error", err)
			continue
		}
		enqueued++
	}

	h.logger.Info("project snapshots enqueued", "projects", len(projects), "enqueued", enqueued)
	return nil
}
