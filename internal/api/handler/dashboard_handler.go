package handler

import (
	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

// DashboardHandler 看板 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Summary 当日汇总
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardSvc.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, summary)
}

// SubjectCounts 当日各科目出勤数
// GET /api/dashboard/subjectCounts
func (h *DashboardHandler) SubjectCounts(c *gin.Context) {
	counts, err := h.dashboardSvc.GetTodaySubjectWiseCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, counts)
}
