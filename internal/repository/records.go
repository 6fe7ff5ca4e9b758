package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/tenant"
)

// TaskRecord is a task with its subtasks in creation order and the derived
// completion figures.
type TaskRecord struct {
	models.Task
	Subtasks               []models.Subtask `json:"subtasks"`
	CompletedSubtasksCount int64            `json:"completed_subtasks_count"`
	TotalSubtasksCount     int64            `json:"total_subtasks_count"`
	CompletionPercentage   int              `json:"completion_percentage"`
}

type UserSummary struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     tenant.Role `json:"role"`
}

type TeamMemberRecord struct {
	UserID   uuid.UUID   `json:"user_id"`
	TeamID   uuid.UUID   `json:"team_id"`
	JoinedAt time.Time   `json:"joined_at"`
	User     UserSummary `json:"user"`
}

type TeamRecord struct {
	models.Team
	Members []TeamMemberRecord `json:"members"`
}

type TeamRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserRecord struct {
	models.User
	Teams []TeamRef `json:"teams"`
}

// ProjectKey identifies a project together with its tenant.
type ProjectKey struct {
	CustomerID uuid.UUID
	ProjectID  uuid.UUID
}
