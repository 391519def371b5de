package model

import "time"

// Attendance 考勤记录表 — 对应 attendance
// (student_id, subject_id, attendance_date) 唯一；status=PRESENT 当且仅当 marked_at 非空
type Attendance struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"                                                     json:"id"`
	StudentID int64            `gorm:"not null;uniqueIndex:uk_attendance_daily,priority:1"                          json:"student_id"`
	SubjectID int64            `gorm:"not null;uniqueIndex:uk_attendance_daily,priority:2"                          json:"subject_id"`
	Status    AttendanceStatus `gorm:"type:varchar(10);not null;default:'ABSENT';index:idx_attendance_date_status,priority:2" json:"status"`
	Date      time.Time        `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uk_attendance_daily,priority:3;index:idx_attendance_date_status,priority:1" json:"date"`
	MarkedAt  *time.Time       `gorm:"column:marked_at"                                                              json:"marked_at,omitempty"`
	MarkedBy  int64            `gorm:"column:marked_by;not null"                                                     json:"marked_by"`
	UpdatedAt time.Time        `gorm:"not null;autoUpdateTime:false"                                                 json:"updated_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:MarkedBy;references:ID"  json:"teacher,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendance" }

// Apply 设置状态并同步 marked_at：
// PRESENT 总是刷新为 now（重新标记即重置过期计时），ABSENT 清空
func (a *Attendance) Apply(status AttendanceStatus, now time.Time) {
	a.Status = status
	if status == StatusPresent {
		t := now
		a.MarkedAt = &t
	} else {
		a.MarkedAt = nil
	}
	a.UpdatedAt = now
}

// Expired 已到期的 PRESENT 记录：now - marked_at >= window
func (a *Attendance) Expired(now time.Time, window time.Duration) bool {
	if a.Status != StatusPresent || a.MarkedAt == nil {
		return false
	}
	return now.Sub(*a.MarkedAt) >= window
}

// Consistent 状态与 marked_at 是否同步
func (a *Attendance) Consistent() bool {
	return (a.Status == StatusPresent) == (a.MarkedAt != nil)
}
