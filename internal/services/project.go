package services

import (
	"errors"
	"time"

	"github.com/tmatias/planwise/backend/internal/models"
	"gorm.io/gorm"
)

// ProjectService enforces the project lifecycle: INACTIVE on creation,
// ACTIVE exactly once via Start. All mutations are permission-gated
// through the MembershipService.
type ProjectService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewProjectService(db *gorm.DB, membership *MembershipService) *ProjectService {
	return &ProjectService{db: db, membership: membership}
}

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=2"`
	Description string     `json:"description" binding:"omitempty,min=2"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=2"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// Create persists a new project and its OWNER membership in one
// transaction. A project without an owner row must never be observable.
func (s *ProjectService) Create(req *CreateProjectRequest, ownerID uint) (*models.Project, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		OwnerID:     ownerID,
		Status:      models.ProjectStatusInactive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		now := time.Now()
		ownerMember := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			Status:    models.MemberStatusActive,
			JoinedAt:  &now,
		}
		return tx.Create(&ownerMember).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Start transitions a project INACTIVE -> ACTIVE. Owner only. The
// transition is a conditional update so two concurrent calls cannot both
// succeed.
func (s *ProjectService) Start(projectID, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !s.membership.IsOwner(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	now := time.Now()
	result := s.db.Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, models.ProjectStatusInactive).
		Updates(map[string]interface{}{
			"status":     models.ProjectStatusActive,
			"started_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrProjectAlreadyActive
	}

	project.Status = models.ProjectStatusActive
	project.StartedAt = &now
	return &project, nil
}

// Update applies a partial update to name, description and due date.
// Owner or admin only; omitted fields are left untouched.
func (s *ProjectService) Update(projectID uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
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

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &project, nil
}

// Delete removes a project together with its members and tasks. Owner
// only.
func (s *ProjectService) Delete(projectID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if !s.membership.IsOwner(projectID, userID) {
		return ErrInsufficientPermissions
	}

	// Tasks and memberships go for good; membership rows must not keep
	// occupying the (project, user) unique index.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

// GetByID returns a project to one of its active members.
func (s *ProjectService) GetByID(projectID, userID uint) (*models.Project, error) {
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

	return &project, nil
}
