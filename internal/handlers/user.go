package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService   *services.UserService
	authService   *services.AuthService
	memberService *services.MemberService
}

func NewUserHandler(db *gorm.DB, authService *services.AuthService, memberService *services.MemberService) *UserHandler {
	return &UserHandler{
		userService:   services.NewUserService(db),
		authService:   authService,
		memberService: memberService,
	}
}

// Me returns the authenticated user's profile
// GET /api/users
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.userService.FindOne(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User successfully fetched.", user)
}

// Projects returns the user's owned and joined projects
// GET /api/users/projects
func (h *UserHandler) Projects(c *gin.Context) {
	userID := middleware.GetUserID(c)

	projects, err := h.userService.GetProjects(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Projects successfully fetched.", projects)
}

// UpdatePassword changes the authenticated user's password
// PATCH /api/users
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(userID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Password successfully updated.")
}

// AcceptInvitation marks a pending membership as active
// POST /api/users/invitations/:projectId
func (h *UserHandler) AcceptInvitation(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid project id.")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.memberService.Accept(userID, uint(projectID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Project invitation successfully accepted.")
}
