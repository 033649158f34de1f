package services

import (
	"errors"

	"github.com/tmatias/planwise/backend/internal/models"
	"gorm.io/gorm"
)

// UserService exposes the current user's profile and project listings.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserProjects splits the caller's projects into those they own and
// those they joined through an invitation.
type UserProjects struct {
	OwnedProjects  []models.Project `json:"owned_projects"`
	JoinedProjects []models.Project `json:"joined_projects"`
}

// FindOne returns the user's profile. The password hash is excluded by
// the model's serialization rules.
func (s *UserService) FindOne(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetProjects returns the user's owned projects plus the projects of
// every non-owner membership.
func (s *UserService) GetProjects(id uint) (*UserProjects, error) {
	if _, err := s.FindOne(id); err != nil {
		return nil, err
	}

	var owned []models.Project
	if err := s.db.Where("owner_id = ?", id).Order("created_at DESC").Find(&owned).Error; err != nil {
		return nil, err
	}

	var memberships []models.ProjectMember
	if err := s.db.Where("user_id = ? AND role <> ?", id, models.RoleOwner).
		Preload("Project").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	joined := make([]models.Project, 0, len(memberships))
	for _, m := range memberships {
		if m.Project != nil {
			joined = append(joined, *m.Project)
		}
	}

	return &UserProjects{
		OwnedProjects:  owned,
		JoinedProjects: joined,
	}, nil
}
