package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateProjectInput struct {
	Title            string
	Description      string
	Status           models.ProjectStatus
	StartDate        time.Time
	EndDate          *time.Time
	Budget           *float64
	Goals            datatypes.JSON
	Milestones       datatypes.JSON
	TechStack        []string
	RepositoryURL    string
	ProjectManagerID *uuid.UUID
}

// UpdateProjectInput carries only the fields to change.
type UpdateProjectInput struct {
	Title         *string
	Description   *string
	Status        *models.ProjectStatus
	StartDate     *time.Time
	EndDate       *time.Time
	Budget        *float64
	Goals         datatypes.JSON
	Milestones    datatypes.JSON
	TechStack     []string
	RepositoryURL *string
}

func validateProjectDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperr.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// CreateProject creates a project. Project managers always manage what they
// create; admins may name another user of the tenant as manager.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	actor, scope, err := authorize(ctx, policy.OpCreate, policy.ResourceProject)
	if err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, apperr.Invalid("status", "must be one of Active, On Hold, Completed")
	}
	start := in.StartDate.UTC()
	if err := validateProjectDates(&start, in.EndDate); err != nil {
		return nil, err
	}

	managerID := actor.UserID
	if scope == policy.ScopeTenant && in.ProjectManagerID != nil {
		managerID = *in.ProjectManagerID
	}

	project := models.Project{
		CustomerID:       actor.CustomerID,
		Title:            in.Title,
		Description:      in.Description,
		ProjectManagerID: managerID,
		Status:           in.Status,
		StartDate:        &start,
		EndDate:          utcPtr(in.EndDate),
		Budget:           in.Budget,
		Goals:            in.Goals,
		Milestones:       in.Milestones,
		TechStack:        datatypes.JSONSlice[string](in.TechStack),
		RepositoryURL:    in.RepositoryURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if managerID != actor.UserID {
			if err := requireRow(tx, &models.User{}, "id = ? AND customer_id = ?", managerID, actor.CustomerID); err != nil {
				return fmt.Errorf("project manager: %w", err)
			}
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"project_id", project.ID,
		"customer_id", actor.CustomerID,
		"user_id", actor.UserID,
	)
	return &project, nil
}

// loadManagedProject finds a live project of the tenant that the caller may
// change. Project managers get ErrForbidden for projects they do not manage.
func loadManagedProject(tx *gorm.DB, customerID, userID, projectID uuid.UUID, scope policy.Scope) (*models.Project, error) {
	var project models.Project
	if err := tx.Where("customer_id = ? AND is_archived = ?", customerID, false).
		First(&project, "id = ?", projectID).Error; err != nil {
		return nil, notFound(err)
	}
	if scope == policy.ScopeManagedProjects && project.ProjectManagerID != userID {
		return nil, fmt.Errorf("not the project manager: %w", apperr.ErrForbidden)
	}
	return &project, nil
}

func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	actor, scope, err := authorize(ctx, policy.OpUpdate, policy.ResourceProject)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalid("status", "must be one of Active, On Hold, Completed")
	}

	var project *models.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadManagedProject(tx, actor.CustomerID, actor.UserID, id, scope)
		if err != nil {
			return err
		}

		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		if in.StartDate != nil {
			p.StartDate = utcPtr(in.StartDate)
		}
		if in.EndDate != nil {
			p.EndDate = utcPtr(in.EndDate)
		}
		if in.Budget != nil {
			p.Budget = in.Budget
		}
		if in.Goals != nil {
			p.Goals = in.Goals
		}
		if in.Milestones != nil {
			p.Milestones = in.Milestones
		}
		if in.TechStack != nil {
			p.TechStack = datatypes.JSONSlice[string](in.TechStack)
		}
		if in.RepositoryURL != nil {
			p.RepositoryURL = *in.RepositoryURL
		}
		if err := validateProjectDates(p.StartDate, p.EndDate); err != nil {
			return err
		}

		project = p
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "project_id", id, "user_id", actor.UserID)
	return project, nil
}

// ArchiveProject soft-deletes a project; archived projects drop out of every
// listing.
func (s *Service) ArchiveProject(ctx context.Context, id uuid.UUID) error {
	actor, scope, err := authorize(ctx, policy.OpDelete, policy.ResourceProject)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadManagedProject(tx, actor.CustomerID, actor.UserID, id, scope)
		if err != nil {
			return err
		}
		return tx.Model(p).Update("is_archived", true).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("project archived", "project_id", id, "user_id", actor.UserID)
	return nil
}
