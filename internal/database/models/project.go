package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	Base
	CustomerID       uuid.UUID                   `gorm:"type:uuid;index;not null" json:"customer_id"`
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `json:"description"`
	ProjectManagerID uuid.UUID                   `gorm:"type:uuid;index;not null" json:"project_manager_id"`
	Status           ProjectStatus               `gorm:"type:varchar(20);default:'Active'" json:"status"`
	StartDate        *time.Time                  `json:"start_date"`
	EndDate          *time.Time                  `json:"end_date"`
	Budget           *float64                    `json:"budget"`
	Goals            datatypes.JSON              `json:"goals"`
	Milestones       datatypes.JSON              `json:"milestones"`
	TechStack        datatypes.JSONSlice[string] `json:"tech_stack"`
	RepositoryURL    string                      `json:"repository_url"`
	IsArchived       bool                        `gorm:"default:false;index" json:"is_archived"`
}

func (Project) TableName() string {
	return "projects"
}

type MetricType string

const (
	MetricTaskCompletion      MetricType = "Task Completion"
	MetricBudgetUtilization   MetricType = "Budget Utilization"
	MetricTimeSpent           MetricType = "Time Spent"
	MetricMilestoneCompletion MetricType = "Milestone Completion"
)

// ProjectMetric is a point-in-time measurement recorded by the worker.
type ProjectMetric struct {
	Base
	ProjectID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	MetricType MetricType `gorm:"type:varchar(32);not null" json:"metric_type"`
	Value      float64    `gorm:"not null" json:"value"`
	RecordedAt time.Time  `gorm:"index" json:"recorded_at"`
}

func (ProjectMetric) TableName() string {
	return "project_metrics"
}
