package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTeamInput struct {
	Name        string
	Description *string
}

func (s *Service) CreateTeam(ctx context.Context, in CreateTeamInput) (*models.Team, error) {
	actor, _, err := authorize(ctx, policy.OpCreate, policy.ResourceTeam)
	if err != nil {
		return nil, err
	}

	team := models.Team{
		CustomerID:  actor.CustomerID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, err
	}

	s.logger.Info("team created", "team_id", team.ID, "user_id", actor.UserID)
	return &team, nil
}

// AddTeamMember adds a tenant user to a tenant team. An existing membership
// is a conflict.
func (s *Service) AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	actor, _, err := authorize(ctx, policy.OpUpdate, policy.ResourceTeam)
	if err != nil {
		return nil, err
	}

	member := models.TeamMember{TeamID: teamID, UserID: userID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Team{}, "id = ? AND customer_id = ?", teamID, actor.CustomerID); err != nil {
			return fmt.Errorf("team: %w", err)
		}
		if err := requireRow(tx, &models.User{}, "id = ? AND customer_id = ?", userID, actor.CustomerID); err != nil {
			return fmt.Errorf("user: %w", err)
		}

		// The (user, team) primary key decides; concurrent adds of the same
		// pair leave exactly one row and the loser reports a conflict.
		member.JoinedAt = s.clock()
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user is already a member of this team: %w", apperr.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team member added", "team_id", teamID, "member_id", userID, "user_id", actor.UserID)
	return &member, nil
}

func (s *Service) RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	actor, _, err := authorize(ctx, policy.OpUpdate, policy.ResourceTeam)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Team{}, "id = ? AND customer_id = ?", teamID, actor.CustomerID); err != nil {
			return fmt.Errorf("team: %w", err)
		}
		result := tx.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("team member: %w", apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("team member removed", "team_id", teamID, "member_id", userID, "user_id", actor.UserID)
	return nil
}
