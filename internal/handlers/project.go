package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

// Create creates a new project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Create(&req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	services.LogInfo("Projects", "Create", "Project created: "+project.Name, &userID, c.ClientIP(), c.Request.UserAgent(), nil)

	response.Created(c, "Project successfully created.", project)
}

// GetByID returns a project visible to the caller
// GET /api/projects/:projectId
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.GetByID(projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project successfully fetched.", project)
}

// Start activates a project
// POST /api/projects/:projectId/start
func (h *ProjectHandler) Start(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Start(projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project successfully started.", project)
}

// Update applies a partial update to the project
// PATCH /api/projects/:projectId
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Update(projectID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project details successfully updated.", project)
}

// Delete removes the project together with its tasks and members
// DELETE /api/projects/:projectId
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.projectService.Delete(projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	services.LogInfo("Projects", "Delete", "Project deleted", &userID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{"project_id": projectID})

	response.Message(c, "Project successfully deleted.")
}
