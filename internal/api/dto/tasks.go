package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/service"
)

type CreateTaskRequest struct {
	ProjectID         string   `json:"project_id"`
	CategoryID        *string  `json:"category_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	DueDate           *string  `json:"due_date"`
	Tags              []string `json:"tags"`
	EstimatedDuration *int     `json:"estimated_duration"`
	ActualDuration    *int     `json:"actual_duration"`
}

func (r CreateTaskRequest) Input() (service.CreateTaskInput, error) {
	errs := fieldErrors{}
	title := strings.TrimSpace(r.Title)
	errs.required("title", title, "Title")
	var projectID uuid.UUID
	if r.ProjectID == "" {
		errs["project_id"] = "Project ID is required"
	} else {
		projectID = errs.id("project_id", r.ProjectID)
	}
	categoryID := errs.optionalID("category_id", r.CategoryID)
	due := errs.date("due_date", r.DueDate)
	errs.nonNegative("estimated_duration", r.EstimatedDuration)
	errs.nonNegative("actual_duration", r.ActualDuration)
	if err := errs.err(); err != nil {
		return service.CreateTaskInput{}, err
	}

	in := service.CreateTaskInput{
		ProjectID:         projectID,
		CategoryID:        categoryID,
		Title:             sanitize(title),
		Description:       sanitize(r.Description),
		Status:            workStatusOrDefault(r.Status),
		Priority:          models.Priority(r.Priority),
		DueDate:           due,
		Tags:              r.Tags,
		EstimatedDuration: r.EstimatedDuration,
	}
	if r.ActualDuration != nil {
		in.ActualDuration = *r.ActualDuration
	}
	return in, nil
}

type UpdateTaskRequest struct {
	CategoryID        *string  `json:"category_id"`
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Status            *string  `json:"status"`
	Priority          *string  `json:"priority"`
	DueDate           *string  `json:"due_date"`
	Tags              []string `json:"tags"`
	EstimatedDuration *int     `json:"estimated_duration"`
	ActualDuration    *int     `json:"actual_duration"`
}

func (r UpdateTaskRequest) Input() (service.UpdateTaskInput, error) {
	errs := fieldErrors{}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs["title"] = "Title must not be empty"
	}
	categoryID := errs.optionalID("category_id", r.CategoryID)
	due := errs.date("due_date", r.DueDate)
	errs.nonNegative("estimated_duration", r.EstimatedDuration)
	errs.nonNegative("actual_duration", r.ActualDuration)
	if err := errs.err(); err != nil {
		return service.UpdateTaskInput{}, err
	}

	in := service.UpdateTaskInput{
		CategoryID:        categoryID,
		Title:             trimmed(r.Title),
		Description:       sanitizePtr(r.Description),
		DueDate:           due,
		Tags:              r.Tags,
		EstimatedDuration: r.EstimatedDuration,
		ActualDuration:    r.ActualDuration,
	}
	if r.Status != nil {
		status := models.WorkStatus(*r.Status)
		in.Status = &status
	}
	if r.Priority != nil {
		priority := models.Priority(*r.Priority)
		in.Priority = &priority
	}
	return in, nil
}

type CreateSubtaskRequest struct {
	TaskID            string   `json:"task_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	AssignedUserID    *string  `json:"assigned_user_id"`
	AssignedTeamID    *string  `json:"assigned_team_id"`
	DueDate           *string  `json:"due_date"`
	Tags              []string `json:"tags"`
	EstimatedDuration *int     `json:"estimated_duration"`
}

func (r CreateSubtaskRequest) Input() (service.CreateSubtaskInput, error) {
	errs := fieldErrors{}
	title := strings.TrimSpace(r.Title)
	errs.required("title", title, "Title")
	var taskID uuid.UUID
	if r.TaskID == "" {
		errs["task_id"] = "Task ID is required"
	} else {
		taskID = errs.id("task_id", r.TaskID)
	}
	userID := errs.optionalID("assigned_user_id", r.AssignedUserID)
	teamID := errs.optionalID("assigned_team_id", r.AssignedTeamID)
	due := errs.date("due_date", r.DueDate)
	errs.nonNegative("estimated_duration", r.EstimatedDuration)
	if err := errs.err(); err != nil {
		return service.CreateSubtaskInput{}, err
	}

	return service.CreateSubtaskInput{
		TaskID:            taskID,
		Title:             sanitize(title),
		Description:       sanitize(r.Description),
		Status:            workStatusOrDefault(r.Status),
		AssignedUserID:    userID,
		AssignedTeamID:    teamID,
		DueDate:           due,
		Tags:              r.Tags,
		EstimatedDuration: r.EstimatedDuration,
	}, nil
}

type UpdateSubtaskRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Status            *string    `json:"status"`
	AssignedUserID    nullableID `json:"assigned_user_id"`
	AssignedTeamID    nullableID `json:"assigned_team_id"`
	DueDate           *string    `json:"due_date"`
	Tags              []string   `json:"tags"`
	EstimatedDuration *int       `json:"estimated_duration"`
}

func (r UpdateSubtaskRequest) Input() (service.UpdateSubtaskInput, error) {
	errs := fieldErrors{}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs["title"] = "Title must not be empty"
	}
	userID := errs.optionalID("assigned_user_id", r.AssignedUserID.Value)
	teamID := errs.optionalID("assigned_team_id", r.AssignedTeamID.Value)
	due := errs.date("due_date", r.DueDate)
	errs.nonNegative("estimated_duration", r.EstimatedDuration)
	if err := errs.err(); err != nil {
		return service.UpdateSubtaskInput{}, err
	}

	in := service.UpdateSubtaskInput{
		Title:             trimmed(r.Title),
		Description:       sanitizePtr(r.Description),
		AssignedUserID:    userID,
		AssignedTeamID:    teamID,
		ClearAssignedUser: r.AssignedUserID.Null(),
		ClearAssignedTeam: r.AssignedTeamID.Null(),
		DueDate:           due,
		Tags:              r.Tags,
		EstimatedDuration: r.EstimatedDuration,
	}
	if r.Status != nil {
		status := models.WorkStatus(*r.Status)
		in.Status = &status
	}
	return in, nil
}

type DependencyRequest struct {
	DependsOnTaskID    *string `json:"depends_on_task_id"`
	DependsOnSubtaskID *string `json:"depends_on_subtask_id"`
}

func (r DependencyRequest) Input() (service.DependencyInput, error) {
	errs := fieldErrors{}
	if (r.DependsOnTaskID == nil) == (r.DependsOnSubtaskID == nil) {
		errs["depends_on"] = models.ErrDependencyTarget.Error()
	}
	taskID := errs.optionalID("depends_on_task_id", r.DependsOnTaskID)
	subtaskID := errs.optionalID("depends_on_subtask_id", r.DependsOnSubtaskID)
	if err := errs.err(); err != nil {
		return service.DependencyInput{}, err
	}
	return service.DependencyInput{DependsOnTaskID: taskID, DependsOnSubtaskID: subtaskID}, nil
}

func workStatusOrDefault(s string) models.WorkStatus {
	if s == "" {
		return models.StatusNotStarted
	}
	return models.WorkStatus(s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize(strings.TrimSpace(*s))
	return &v
}
