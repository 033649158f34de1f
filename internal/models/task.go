package models

import (
	"time"

	"gorm.io/gorm"
)

// Task status values. Lifecycle: PENDING -> ACTIVE -> COMPLETED, with
// PENDING -> COMPLETED also allowed.
const (
	TaskStatusPending   = "PENDING"
	TaskStatusActive    = "ACTIVE"
	TaskStatusCompleted = "COMPLETED"
)

// Task priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a unit of work inside a project.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"index;not null" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Description string         `gorm:"size:1000;not null" json:"description"`
	Priority    string         `gorm:"size:20;not null" json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	Status      string         `gorm:"size:20;default:PENDING" json:"status"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
