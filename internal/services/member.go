package services

import (
	"errors"
	"time"

	"github.com/tmatias/planwise/backend/internal/models"
	"github.com/tmatias/planwise/backend/pkg/logger"
	"gorm.io/gorm"
)

// MemberService manages project membership: inviting users, accepting
// invitations, role changes and removal. Invited members start PENDING
// and gain authority only after accepting.
type MemberService struct {
	db         *gorm.DB
	membership *MembershipService
	queue      NotifyQueue
}

// NewMemberService creates a MemberService. queue may be nil, in which
// case invitation notifications are skipped.
func NewMemberService(db *gorm.DB, membership *MembershipService, queue NotifyQueue) *MemberService {
	return &MemberService{db: db, membership: membership, queue: queue}
}

type InvitedUser struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

type InviteUsersRequest struct {
	UsersList []InvitedUser `json:"users_list" binding:"required,min=1,dive"`
}

type UpdateMemberRoleRequest struct {
	MemberID uint   `json:"member_id" binding:"required"`
	NewRole  string `json:"new_role" binding:"required,oneof=ADMIN MEMBER"`
}

// Invite resolves every listed email to an account and creates PENDING
// memberships for all of them in one transaction. Any unresolvable email
// or pre-existing membership aborts the whole batch; no partial invite
// set is ever persisted.
func (s *MemberService) Invite(projectID uint, req *InviteUsersRequest, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return ErrInsufficientPermissions
	}

	type pendingInvite struct {
		member models.ProjectMember
		email  string
	}

	invites := make([]pendingInvite, 0, len(req.UsersList))
	for _, invited := range req.UsersList {
		var user models.User
		if err := s.db.Where("email = ?", invited.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var count int64
		s.db.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, user.ID).
			Count(&count)
		if count > 0 {
			return ErrAlreadyMember
		}

		invites = append(invites, pendingInvite{
			member: models.ProjectMember{
				ProjectID: projectID,
				UserID:    user.ID,
				Role:      invited.Role,
				Status:    models.MemberStatusPending,
			},
			email: user.Email,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range invites {
			if err := tx.Create(&invites[i].member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.queue != nil {
		for _, inv := range invites {
			task := &InviteNotification{
				ProjectID:   projectID,
				ProjectName: project.Name,
				MemberID:    inv.member.ID,
				Email:       inv.email,
				Role:        inv.member.Role,
				InvitedBy:   userID,
			}
			if err := s.queue.EnqueueInvite(task); err != nil {
				logger.Warn().Err(err).Str("email", inv.email).Msg("failed to enqueue invite notification")
			}
		}
	}

	return nil
}

// Accept activates the caller's PENDING membership. The transition is a
// conditional update; an already-accepted invitation fails with a
// conflict.
func (s *MemberService) Accept(userID, projectID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	var member models.ProjectMember
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	result := s.db.Model(&models.ProjectMember{}).
		Where("id = ? AND status = ?", member.ID, models.MemberStatusPending).
		Updates(map[string]interface{}{
			"status":    models.MemberStatusActive,
			"joined_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationAccepted
	}

	return nil
}

// UpdateRole overwrites a member's role. Owner or admin only. The OWNER
// row itself cannot be reassigned; there is exactly one owner per
// project, fixed at creation.
func (s *MemberService) UpdateRole(projectID uint, req *UpdateMemberRoleRequest, userID uint) (*models.ProjectMember, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	var member models.ProjectMember
	if err := s.db.Where("id = ? AND project_id = ?", req.MemberID, projectID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if member.Role == models.RoleOwner {
		return nil, ErrInsufficientPermissions
	}

	if err := s.db.Model(&member).Update("role", req.NewRole).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

// Remove deletes a membership. Owner or admin only; the OWNER row cannot
// be removed. The delete is unscoped: the (project, user) pair is unique,
// and a removed member must be invitable again.
func (s *MemberService) Remove(projectID, memberID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return ErrInsufficientPermissions
	}

	var member models.ProjectMember
	if err := s.db.Where("id = ? AND project_id = ?", memberID, projectID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if member.Role == models.RoleOwner {
		return ErrInsufficientPermissions
	}

	return s.db.Unscoped().Delete(&member).Error
}

// List returns all members of a project, with user details, to any
// active member.
func (s *MemberService) List(projectID, userID uint) ([]models.ProjectMember, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !s.membership.IsActiveMember(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
