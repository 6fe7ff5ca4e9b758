// Package repository composes tenant- and role-scoped reads. Every method
// resolves the caller from the context, asks the access policy for a scope and
// narrows its query to that scope; rows outside the caller's tenant are
// reported as apperr.ErrNotFound.
//
// Nested collections (subtasks of tasks, members of teams, teams of users) are
// fetched in one batched query per level and assembled in memory.
package repository

import (
	"context"
	"errors"

	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// authorize resolves the caller and the row scope it may see.
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

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
