package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/gorm"
)

func (r *Repository) teamScope(ctx context.Context, actor tenant.Actor, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Where("teams.customer_id = ?", actor.CustomerID)
	if scope == policy.ScopeMemberTeams {
		mine := r.db.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ?", actor.UserID)
		q = q.Where("teams.id IN (?)", mine)
	}
	return q
}

func (r *Repository) ListTeams(ctx context.Context) ([]TeamRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpList, policy.ResourceTeam)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if err := r.teamScope(ctx, actor, scope).
		Order("teams.name ASC").Order("teams.id").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return r.assembleTeams(ctx, teams)
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*TeamRecord, error) {
	actor, scope, err := authorize(ctx, policy.OpView, policy.ResourceTeam)
	if err != nil {
		return nil, err
	}

	var team models.Team
	if err := r.teamScope(ctx, actor, scope).First(&team, "teams.id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	records, err := r.assembleTeams(ctx, []models.Team{team})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

type memberRow struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
	Username string
	Email    string
	Role     tenant.Role
}

// assembleTeams attaches members, each with a user summary, in one join.
func (r *Repository) assembleTeams(ctx context.Context, teams []models.Team) ([]TeamRecord, error) {
	records := make([]TeamRecord, len(teams))
	if len(teams) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Select("team_members.team_id, team_members.user_id, team_members.joined_at, users.username, users.email, users.role").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id IN ?", ids).
		Order("team_members.joined_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byTeam := make(map[uuid.UUID][]TeamMemberRecord, len(teams))
	for _, row := range rows {
		byTeam[row.TeamID] = append(byTeam[row.TeamID], TeamMemberRecord{
			UserID:   row.UserID,
			TeamID:   row.TeamID,
			JoinedAt: row.JoinedAt,
			User: UserSummary{
				ID:       row.UserID,
				Username: row.Username,
				Email:    row.Email,
				Role:     row.Role,
			},
		})
	}

	for i, t := range teams {
		members := byTeam[t.ID]
		if members == nil {
			members = []TeamMemberRecord{}
		}
		records[i] = TeamRecord{Team: t, Members: members}
	}
	return records, nil
}
