package models

import (
	"time"

	"gorm.io/gorm"
)

// Project status values. A project starts INACTIVE and becomes ACTIVE
// exactly once, via the start operation.
const (
	ProjectStatusInactive = "INACTIVE"
	ProjectStatusActive   = "ACTIVE"
)

// Project is a container for tasks, owned by exactly one user and shared
// with invited members.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"size:1000" json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Status      string         `gorm:"size:20;default:INACTIVE" json:"status"`
	StartedAt   *time.Time     `json:"started_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
