package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Invite sends membership invitations to a batch of users
// POST /api/projects/:projectId/invite
func (h *MemberHandler) Invite(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req services.InviteUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.memberService.Invite(projectID, &req, userID); err != nil {
		response.Error(c, err)
		return
	}

	services.LogInfo("Projects", "Invite", "Invitations sent", &userID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{"project_id": projectID, "count": len(req.UsersList)})

	response.Message(c, "Invitations successfully sent.")
}

// List returns the members of a project
// GET /api/projects/:projectId/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	members, err := h.memberService.List(projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members successfully fetched.", members)
}

// UpdateRole changes a member's role
// PATCH /api/projects/:projectId/members
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req services.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.UpdateRole(projectID, &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role successfully updated.", member)
}

// Remove deletes a member from the project
// DELETE /api/projects/:projectId/members/:memberId
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.memberService.Remove(projectID, memberID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Member successfully removed.")
}
