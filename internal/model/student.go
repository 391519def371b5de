package model

import "time"

// Student 学生表 — 对应 students
// 与 STUDENT 角色的 User 通过 username 一一对应，单独存储
type Student struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                                   json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_students_username" json:"username"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                         json:"created_at"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
