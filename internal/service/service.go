// Package service holds the mutation use cases. Each one checks the caller
// against the access policy, validates every foreign reference inside the
// caller's tenant and performs its writes in a single transaction.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

// ProjectNotifier is told about projects whose tasks changed, after the
// change has been committed.
type ProjectNotifier interface {
	ProjectChanged(ctx context.Context, customerID, projectID uuid.UUID) error
}

type Service struct {
	db       *gorm.DB
	repo     *repository.Repository
	logger   *slog.Logger
	notifier ProjectNotifier
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n ProjectNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *gorm.DB, repo *repository.Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		db:     db,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func authorize(ctx context.Context, op policy.Operation, res policy.Resource) (tenant.Actor, policy.Scope, error) {
	actor, err := tenant.FromContext(ctx)
	if err != nil {
		return tenant.Actor{}, policy.ScopeNone, err
	}
	scope, err := policy.Check(actor, op, res)
	if err != nil {
		return actor, policy.ScopeNone, err
	}
	return actor, scope, nil
}

// notify is best effort; a failed notification never fails the mutation.
func (s *Service) notify(ctx context.Context, customerID, projectID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ProjectChanged(ctx, customerID, projectID); err != nil {
		s.logger.Warn("project notification failed",
			"customer_id", customerID,
			"project_id", projectID,
			"error", err,
		)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}

// requireRow fails with ErrNotFound unless query matches at least one row of model.
func requireRow(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
