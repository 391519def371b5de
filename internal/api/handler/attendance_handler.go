package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Mark 标记考勤；teacherId 省略时取当前登录用户
// POST /api/attendance/mark
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := service.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	teacherID := req.TeacherID
	if teacherID == 0 {
		uid, ok := MustGetUserID(c)
		if !ok {
			return
		}
		teacherID = uid
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), req.StudentID, req.SubjectID, status, teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// Today 当日全部考勤
// GET /api/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	list, err := h.attendanceSvc.GetTodayAttendance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Reset 将当日全部考勤置为 ABSENT（教师）
// POST /api/attendance/reset
func (h *AttendanceHandler) Reset(c *gin.Context) {
	result, err := h.attendanceSvc.ResetDailyAttendance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// parseDateRange 解析 start/end，二者必须同时给出
func parseDateRange(c *gin.Context, q *dto.DateRangeQuery) (time.Time, time.Time, bool) {
	if q.Start == "" || q.End == "" {
		response.BadRequest(c, codeInvalidParams, "start 与 end 需同时提供")
		return time.Time{}, time.Time{}, false
	}
	start, err := model.ParseDate(q.Start)
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "start 日期格式应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := model.ParseDate(q.End)
	if err != nil {
		response.BadRequest(c, codeInvalidParams, "end 日期格式应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
