package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership roles, from highest to lowest authority.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Membership status. PENDING members have been invited but carry no
// authority until they accept and become ACTIVE.
const (
	MemberStatusPending = "PENDING"
	MemberStatusActive  = "ACTIVE"
)

// ValidRole reports whether role is one of the enumerated membership roles.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin || role == RoleMember
}

// ProjectMember links a user to a project with a role. A (project, user)
// pair is unique; the owner row is created together with the project.
type ProjectMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string         `gorm:"size:20;default:MEMBER" json:"role"`
	Status    string         `gorm:"size:20;default:PENDING" json:"status"`
	JoinedAt  *time.Time     `json:"joined_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectMember) TableName() string { return "project_members" }
