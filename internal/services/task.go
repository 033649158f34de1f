package services

import (
	"errors"
	"time"

	"github.com/tmatias/planwise/backend/internal/models"
	"gorm.io/gorm"
)

// TaskService enforces the task lifecycle PENDING -> ACTIVE -> COMPLETED
// (PENDING -> COMPLETED is also allowed). Every operation verifies the
// parent project first, then the caller's role.
type TaskService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewTaskService(db *gorm.DB, membership *MembershipService) *TaskService {
	return &TaskService{db: db, membership: membership}
}

type AddTaskRequest struct {
	Description string     `json:"description" binding:"required,min=2"`
	Priority    string     `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Description *string    `json:"description" binding:"omitempty,min=2"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *TaskService) projectExists(projectID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) findTask(projectID, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ? AND project_id = ?", taskID, projectID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Add creates a task in PENDING state. Owner or admin only.
func (s *TaskService) Add(projectID uint, req *AddTaskRequest, userID uint) (*models.Task, error) {
	if err := s.projectExists(projectID); err != nil {
		return nil, err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	task := models.Task{
		ProjectID:   projectID,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Status:      models.TaskStatusPending,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update applies a partial update to description, priority and due date.
// Owner or admin only.
func (s *TaskService) Update(projectID, taskID uint, req *UpdateTaskRequest, userID uint) (*models.Task, error) {
	if err := s.projectExists(projectID); err != nil {
		return nil, err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return task, nil
}

// Start transitions a task PENDING -> ACTIVE. Any active member may
// start a task. The conditional update rejects tasks that already left
// PENDING.
func (s *TaskService) Start(projectID, taskID, userID uint) error {
	if err := s.projectExists(projectID); err != nil {
		return err
	}

	if !s.membership.IsActiveMember(projectID, userID) {
		return ErrInsufficientPermissions
	}

	if _, err := s.findTask(projectID, taskID); err != nil {
		return err
	}

	result := s.db.Model(&models.Task{}).
		Where("id = ? AND project_id = ? AND status = ?", taskID, projectID, models.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":     models.TaskStatusActive,
			"started_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotStartable
	}

	return nil
}

// Complete transitions a task to COMPLETED from either PENDING or
// ACTIVE. Any active member may complete a task; completing twice fails.
func (s *TaskService) Complete(projectID, taskID, userID uint) error {
	if err := s.projectExists(projectID); err != nil {
		return err
	}

	if !s.membership.IsActiveMember(projectID, userID) {
		return ErrInsufficientPermissions
	}

	if _, err := s.findTask(projectID, taskID); err != nil {
		return err
	}

	result := s.db.Model(&models.Task{}).
		Where("id = ? AND project_id = ? AND status IN ?", taskID, projectID,
			[]string{models.TaskStatusPending, models.TaskStatusActive}).
		Updates(map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskAlreadyCompleted
	}

	return nil
}

// Delete removes a task. Owner or admin only.
func (s *TaskService) Delete(projectID, taskID, userID uint) error {
	if err := s.projectExists(projectID); err != nil {
		return err
	}

	if !s.membership.IsOwnerOrAdmin(projectID, userID) {
		return ErrInsufficientPermissions
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return err
	}

	return s.db.Delete(task).Error
}

// List returns the project's tasks, optionally filtered by status.
func (s *TaskService) List(projectID uint, status string, userID uint) ([]models.Task, error) {
	if err := s.projectExists(projectID); err != nil {
		return nil, err
	}

	if !s.membership.IsActiveMember(projectID, userID) {
		return nil, ErrInsufficientPermissions
	}

	query := s.db.Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
