package model

import (
	"strings"
	"time"
)

// ── 角色 ──

// Role 用户角色
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// ParseRole 大小写不敏感地解析角色
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// ── 考勤状态 ──

// AttendanceStatus 考勤状态
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
)

// ParseAttendanceStatus 大小写不敏感地解析考勤状态
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch AttendanceStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPresent:
		return StatusPresent, true
	case StatusAbsent:
		return StatusAbsent, true
	}
	return "", false
}

// ── 自然日 ──

// DateLayout 自然日的展示与解析格式
const DateLayout = "2006-01-02"

// CalendarDate 取 t 在 loc 时区下的自然日，归一为 UTC 零点。
// 存储与查询都只使用该形式，保证同一天的比较在各驱动下一致。
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Timestamps 通用审计字段
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
