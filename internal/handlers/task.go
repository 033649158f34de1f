package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Add creates a task in the project
// POST /api/projects/:projectId/tasks
func (h *TaskHandler) Add(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req services.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.Add(projectID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Task successfully added to the project.", task)
}

// List returns the project's tasks, optionally filtered by status
// GET /api/projects/:projectId/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	tasks, err := h.taskService.List(projectID, c.Query("status"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tasks successfully fetched.", tasks)
}

// Update applies a partial update to a task
// PATCH /api/projects/:projectId/tasks/:taskId
func (h *TaskHandler) Update(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.Update(projectID, taskID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Task details successfully updated.", task)
}

// Start moves a pending task to active
// POST /api/projects/:projectId/tasks/:taskId/start
func (h *TaskHandler) Start(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.taskService.Start(projectID, taskID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Task successfully started.")
}

// Complete marks an unfinished task as completed
// POST /api/projects/:projectId/tasks/:taskId/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.taskService.Complete(projectID, taskID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Task successfully completed.")
}

// Delete removes a task
// DELETE /api/projects/:projectId/tasks/:taskId
func (h *TaskHandler) Delete(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.taskService.Delete(projectID, taskID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Task successfully deleted.")
}
