package services

import (
	"github.com/tmatias/planwise/backend/internal/models"
	"gorm.io/gorm"
)

// MembershipService is the single source of truth for project
// permissions. Every lifecycle operation routes its role check through
// here. Only ACTIVE memberships grant authority; a PENDING invitation
// does not. Checks read current state on every call, so role changes
// take effect immediately.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// HasRole reports whether the user holds an ACTIVE membership on the
// project with one of the allowed roles. A missing row is not an error,
// it simply means "no".
func (s *MembershipService) HasRole(projectID, userID uint, allowedRoles ...string) bool {
	var count int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND status = ? AND role IN ?",
			projectID, userID, models.MemberStatusActive, allowedRoles).
		Count(&count)
	return count > 0
}

// IsOwner reports whether the user is the project's OWNER.
func (s *MembershipService) IsOwner(projectID, userID uint) bool {
	return s.HasRole(projectID, userID, models.RoleOwner)
}

// IsOwnerOrAdmin reports whether the user is OWNER or ADMIN.
func (s *MembershipService) IsOwnerOrAdmin(projectID, userID uint) bool {
	return s.HasRole(projectID, userID, models.RoleOwner, models.RoleAdmin)
}

// IsActiveMember reports whether the user holds any ACTIVE membership.
func (s *MembershipService) IsActiveMember(projectID, userID uint) bool {
	return s.HasRole(projectID, userID, models.RoleOwner, models.RoleAdmin, models.RoleMember)
}
