package dto

import (
	"encoding/json"
	"strings"

	"github.com/hugh/go-planner/internal/api/validation"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/service"
	"gorm.io/datatypes"
)

type CreateProjectRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	StartDate        *string         `json:"start_date"`
	EndDate          *string         `json:"end_date"`
	Budget           *float64        `json:"budget"`
	Goals            json.RawMessage `json:"goals"`
	Milestones       json.RawMessage `json:"milestones"`
	TechStack        []string        `json:"tech_stack"`
	RepositoryURL    string          `json:"repository_url"`
	ProjectManagerID *string         `json:"project_manager_id"`
}

func (r CreateProjectRequest) Input() (service.CreateProjectInput, error) {
	errs := fieldErrors{}
	title := strings.TrimSpace(r.Title)
	errs.required("title", title, "Title")
	errs.required("status", r.Status, "Status")
	if r.StartDate == nil || *r.StartDate == "" {
		errs["start_date"] = "Start date is required"
	}
	start := errs.date("start_date", r.StartDate)
	end := errs.date("end_date", r.EndDate)
	checkBudget(errs, r.Budget)
	checkRepositoryURL(errs, r.RepositoryURL)
	managerID := errs.optionalID("project_manager_id", r.ProjectManagerID)
	if err := errs.err(); err != nil {
		return service.CreateProjectInput{}, err
	}

	return service.CreateProjectInput{
		Title:            sanitize(title),
		Description:      sanitize(r.Description),
		Status:           models.ProjectStatus(r.Status),
		StartDate:        *start,
		EndDate:          end,
		Budget:           r.Budget,
		Goals:            jsonColumn(r.Goals),
		Milestones:       jsonColumn(r.Milestones),
		TechStack:        r.TechStack,
		RepositoryURL:    r.RepositoryURL,
		ProjectManagerID: managerID,
	}, nil
}

type UpdateProjectRequest struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Status        *string         `json:"status"`
	StartDate     *string         `json:"start_date"`
	EndDate       *string         `json:"end_date"`
	Budget        *float64        `json:"budget"`
	Goals         json.RawMessage `json:"goals"`
	Milestones    json.RawMessage `json:"milestones"`
	TechStack     []string        `json:"tech_stack"`
	RepositoryURL *string         `json:"repository_url"`
}

func (r UpdateProjectRequest) Input() (service.UpdateProjectInput, error) {
	errs := fieldErrors{}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs["title"] = "Title must not be empty"
	}
	start := errs.date("start_date", r.StartDate)
	end := errs.date("end_date", r.EndDate)
	checkBudget(errs, r.Budget)
	if r.RepositoryURL != nil {
		checkRepositoryURL(errs, *r.RepositoryURL)
	}
	if err := errs.err(); err != nil {
		return service.UpdateProjectInput{}, err
	}

	in := service.UpdateProjectInput{
		Description:   sanitizePtr(r.Description),
		StartDate:     start,
		EndDate:       end,
		Budget:        r.Budget,
		Goals:         jsonColumn(r.Goals),
		Milestones:    jsonColumn(r.Milestones),
		TechStack:     r.TechStack,
		RepositoryURL: r.RepositoryURL,
	}
	if r.Title != nil {
		title := sanitize(strings.TrimSpace(*r.Title))
		in.Title = &title
	}
	if r.Status != nil {
		status := models.ProjectStatus(*r.Status)
		in.Status = &status
	}
	return in, nil
}

func checkBudget(errs fieldErrors, budget *float64) {
	if budget != nil && *budget < 0 {
		errs["budget"] = "Budget must not be negative"
	}
}

func checkRepositoryURL(errs fieldErrors, raw string) {
	if raw != "" && !validation.IsValidURL(raw) {
		errs["repository_url"] = "Repository URL must be an http or https URL"
	}
}

// jsonColumn keeps absent and null values out of the update.
func jsonColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}
