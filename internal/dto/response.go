package dto

// ── 认证模块响应 ──

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（不含密码）
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// StudentResponse 学生信息；ID 即考勤中使用的 studentId
type StudentResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// SubjectResponse 科目信息
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ── 考勤模块响应 ──

// AttendanceResponse 单条考勤记录
type AttendanceResponse struct {
	ID          int64   `json:"id"`
	StudentID   int64   `json:"studentId"`
	StudentName string  `json:"studentName,omitempty"`
	SubjectID   int64   `json:"subjectId"`
	SubjectName string  `json:"subjectName,omitempty"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	MarkedAt    *string `json:"markedAt"`
	MarkedBy    int64   `json:"markedBy"`
	TeacherName string  `json:"teacherName,omitempty"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ResetResponse 当日重置结果
type ResetResponse struct {
	Date string `json:"date"`
	Rows int64  `json:"rows"`
}

// ── 看板响应 ──

// DashboardSummary 当日看板快照
type DashboardSummary struct {
	Date          string           `json:"date"`
	TotalStudents int64            `json:"totalStudents"`
	TotalSubjects int64            `json:"totalSubjects"`
	PresentTotal  int64            `json:"presentTotal"`
	AbsentTotal   int64            `json:"absentTotal"`
	PerSubject    map[string]int64 `json:"perSubject"`
}
