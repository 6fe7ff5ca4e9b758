package models

import (
	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/tenant"
)

type User struct {
	Base
	CustomerID   uuid.UUID   `gorm:"type:uuid;index;not null" json:"customer_id"`
	Username     string      `gorm:"uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         tenant.Role `gorm:"type:varchar(32);not null" json:"role"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (User) TableName() string {
	return "users"
}
