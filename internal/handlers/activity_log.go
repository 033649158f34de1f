package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/pkg/response"
	"gorm.io/gorm"
)

type ActivityLogHandler struct {
	logService *services.ActivityLogService
}

func NewActivityLogHandler(db *gorm.DB) *ActivityLogHandler {
	return &ActivityLogHandler{
		logService: services.NewActivityLogService(db),
	}
}

// List returns paginated activity logs with optional filters
// GET /api/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	var req services.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Activity logs successfully fetched.", resp)
}
