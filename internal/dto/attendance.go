package dto

// ── 考勤模块 DTO ──

// MarkAttendanceRequest 标记考勤请求
// TeacherID 省略时取当前登录用户
type MarkAttendanceRequest struct {
	StudentID int64  `json:"studentId" binding:"required,min=1"`
	SubjectID int64  `json:"subjectId" binding:"required,min=1"`
	Status    string `json:"status"    binding:"required"`
	TeacherID int64  `json:"teacherId" binding:"omitempty,min=1"`
}

// DateRangeQuery 日期区间查询参数（YYYY-MM-DD，闭区间）
type DateRangeQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// IsEmpty 是否未指定区间
func (q *DateRangeQuery) IsEmpty() bool {
	return q.Start == "" && q.End == ""
}
