package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/api/validation"
	"github.com/hugh/go-planner/internal/service"
	"github.com/hugh/go-planner/internal/tenant"
)

type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r CreateTeamRequest) Input() (service.CreateTeamInput, error) {
	errs := fieldErrors{}
	name := strings.TrimSpace(r.Name)
	errs.required("name", name, "Name")
	if err := errs.err(); err != nil {
		return service.CreateTeamInput{}, err
	}
	return service.CreateTeamInput{Name: sanitize(name), Description: sanitizePtr(r.Description)}, nil
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

func (r AddMemberRequest) UserUUID() (uuid.UUID, error) {
	errs := fieldErrors{}
	var id uuid.UUID
	if r.UserID == "" {
		errs["user_id"] = "User ID is required"
	} else {
		id = errs.id("user_id", r.UserID)
	}
	return id, errs.err()
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (r UpdateUserRequest) Input() (service.UpdateUserInput, error) {
	errs := fieldErrors{}
	in := service.UpdateUserInput{Password: r.Password}

	if r.Username != nil {
		name := strings.TrimSpace(*r.Username)
		if !validation.IsValidUsername(name) {
			errs["username"] = "Username must be 3-50 letters, digits, dots, dashes or underscores"
		}
		in.Username = &name
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		if !validation.IsValidEmail(email) {
			errs["email"] = "Invalid email format"
		}
		in.Email = &email
	}
	if r.Password != nil {
		if ok, msg := validation.IsValidPassword(*r.Password); !ok {
			errs["password"] = msg
		}
	}
	if r.Role != nil {
		role, err := tenant.ParseRole(*r.Role)
		if err != nil {
			errs["role"] = "Role must be one of Admin, Project Manager, Team Member"
		}
		in.Role = &role
	}

	if err := errs.err(); err != nil {
		return service.UpdateUserInput{}, err
	}
	return in, nil
}

type TimeEntryRequest struct {
	SubtaskID string  `json:"subtask_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Duration  *int64  `json:"duration"`
	Notes     *string `json:"notes"`
}

func (r TimeEntryRequest) Input() (service.TimeEntryInput, error) {
	errs := fieldErrors{}
	var subtaskID uuid.UUID
	if r.SubtaskID == "" {
		errs["subtask_id"] = "Subtask ID is required"
	} else {
		subtaskID = errs.id("subtask_id", r.SubtaskID)
	}
	start := errs.timestamp("start_time", r.StartTime)
	end := errs.timestamp("end_time", r.EndTime)
	if r.Duration == nil {
		errs["duration"] = "Duration is required"
	}
	if err := errs.err(); err != nil {
		return service.TimeEntryInput{}, err
	}

	return service.TimeEntryInput{
		SubtaskID: subtaskID,
		StartTime: start,
		EndTime:   end,
		Duration:  *r.Duration,
		Notes:     sanitizePtr(r.Notes),
	}, nil
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r CreateCategoryRequest) Input() (service.CreateCategoryInput, error) {
	errs := fieldErrors{}
	name := strings.TrimSpace(r.Name)
	errs.required("name", name, "Name")
	if r.Color == "" {
		errs["color"] = "Color is required"
	} else if !validation.IsValidHexColor(r.Color) {
		errs["color"] = "Color must be a hex color like #1a2b3c"
	}
	if err := errs.err(); err != nil {
		return service.CreateCategoryInput{}, err
	}
	return service.CreateCategoryInput{Name: sanitize(name), Color: strings.ToLower(r.Color)}, nil
}
