package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Base
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamMember is the (user, team) join row; the pair is the primary key.
type TeamMember struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"team_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
