package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category groups tasks. A nil CustomerID marks a global category visible to
// every tenant.
type Category struct {
	Base
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Name       string     `gorm:"not null" json:"name"`
	Color      string     `gorm:"type:varchar(7);not null" json:"color"`
}

func (Category) TableName() string {
	return "categories"
}

type Task struct {
	Base
	CustomerID        uuid.UUID                   `gorm:"type:uuid;index;not null" json:"customer_id"`
	ProjectID         uuid.UUID                   `gorm:"type:uuid;index;not null" json:"project_id"`
	CategoryID        *uuid.UUID                  `gorm:"type:uuid" json:"category_id"`
	Title             string                      `gorm:"not null" json:"title"`
	Description       string                      `json:"description"`
	Status            WorkStatus                  `gorm:"type:varchar(20);default:'Not Started'" json:"status"`
	Priority          Priority                    `gorm:"type:varchar(10);default:'Medium'" json:"priority"`
	DueDate           *time.Time                  `json:"due_date"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	EstimatedDuration *int                        `json:"estimated_duration"`
	ActualDuration    int                         `gorm:"default:0" json:"actual_duration"`
	StartDate         *time.Time                  `json:"start_date"`
	EndDate           *time.Time                  `json:"end_date"`

	Subtasks []Subtask `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

type Subtask struct {
	Base
	TaskID            uuid.UUID                   `gorm:"type:uuid;index;not null" json:"task_id"`
	Title             string                      `gorm:"not null" json:"title"`
	Description       string                      `json:"description"`
	Status            WorkStatus                  `gorm:"type:varchar(20);default:'Not Started'" json:"status"`
	AssignedUserID    *uuid.UUID                  `gorm:"type:uuid;index" json:"assigned_user_id"`
	AssignedTeamID    *uuid.UUID                  `gorm:"type:uuid" json:"assigned_team_id"`
	DueDate           *time.Time                  `json:"due_date"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	EstimatedDuration *int                        `json:"estimated_duration"`
}

func (Subtask) TableName() string {
	return "subtasks"
}

var ErrDependencyTarget = errors.New("dependency must reference exactly one of depends_on_task_id or depends_on_subtask_id")

// Dependency links a task to either another task or a subtask, never both.
type Dependency struct {
	Base
	TaskID             uuid.UUID  `gorm:"type:uuid;index;not null" json:"task_id"`
	DependsOnTaskID    *uuid.UUID `gorm:"type:uuid;index" json:"depends_on_task_id"`
	DependsOnSubtaskID *uuid.UUID `gorm:"type:uuid;index" json:"depends_on_subtask_id"`
}

func (Dependency) TableName() string {
	return "dependencies"
}

func (d *Dependency) Validate() error {
	if (d.DependsOnTaskID == nil) == (d.DependsOnSubtaskID == nil) {
		return ErrDependencyTarget
	}
	return nil
}

func (d *Dependency) BeforeSave(tx *gorm.DB) error {
	return d.Validate()
}

type TimeEntry struct {
	Base
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	SubtaskID  uuid.UUID `gorm:"type:uuid;index;not null" json:"subtask_id"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	Duration   int64     `gorm:"not null" json:"duration"`
	Notes      *string   `json:"notes"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
