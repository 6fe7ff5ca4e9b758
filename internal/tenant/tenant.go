// Package tenant resolves who is calling: the user, the customer (tenant) the
// user belongs to, and the user's role. Every query and mutation starts from an
// Actor and refuses to proceed without a complete one.
package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
)

type Actor struct {
	UserID     uuid.UUID
	CustomerID uuid.UUID
	Role       Role
}

// NewActor builds an Actor from verified token fields. Any missing field, or a
// role outside the known set, yields ErrUnauthenticated.
func NewActor(userID, customerID uuid.UUID, role string) (Actor, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, apperr.ErrUnauthenticated
	}
	a := Actor{UserID: userID, CustomerID: customerID, Role: r}
	if !a.Valid() {
		return Actor{}, apperr.ErrUnauthenticated
	}
	return a, nil
}

func (a Actor) Valid() bool {
	return a.UserID != uuid.Nil && a.CustomerID != uuid.Nil && a.Role.Valid()
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type contextKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the request's Actor or ErrUnauthenticated.
func FromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(contextKey{}).(Actor)
	if !ok || !a.Valid() {
		return Actor{}, apperr.ErrUnauthenticated
	}
	return a, nil
}
