package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
)

// GetUser fetches a user of the caller's tenant with their teams. Team members
// may only fetch themselves.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpView, policy.ResourceUser)
	if err != nil {
		return nil, err
	}
	if scope == policy.ScopeSelf && id != actor.UserID {
		return nil, apperr.ErrForbidden
	}

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", actor.CustomerID).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	records, err := r.assembleUsers(ctx, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]UserRecord, error) {
	actor, _, err := authorize(ctx, policy.OpList, policy.ResourceUser)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", actor.CustomerID).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return r.assembleUsers(ctx, users)
}

func (r *Repository) assembleUsers(ctx context.Context, users []models.User) ([]UserRecord, error) {
	records := make([]UserRecord, len(users))
	if len(users) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var rows []struct {
		UserID uuid.UUID
		TeamID uuid.UUID
		Name   string
	}
	if err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Select("team_members.user_id, team_members.team_id, teams.name").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id IN ?", ids).
		Order("teams.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID][]TeamRef, len(users))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], TeamRef{ID: row.TeamID, Name: row.Name})
	}

	for i, u := range users {
		teams := byUser[u.ID]
		if teams == nil {
			teams = []TeamRef{}
		}
		records[i] = UserRecord{User: u, Teams: teams}
	}
	return records, nil
}
