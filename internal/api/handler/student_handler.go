package handler

import (
	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc    service.StudentService
	attendanceSvc service.AttendanceService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService, attendanceSvc service.AttendanceService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc, attendanceSvc: attendanceSvc}
}

// ListStudents 学生列表
// GET /api/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	list, err := h.studentSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// GetStudentAttendance 学生考勤历史，start/end 同时给出时按区间过滤
// GET /api/students/:id/attendance?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *StudentHandler) GetStudentAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	ctx := c.Request.Context()
	if q.IsEmpty() {
		list, err := h.attendanceSvc.GetStudentAttendance(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, list)
		return
	}

	start, end, ok := parseDateRange(c, &q)
	if !ok {
		return
	}
	list, err := h.attendanceSvc.GetStudentAttendanceByDateRange(ctx, id, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}
