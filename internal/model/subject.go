package model

// Subject 科目表 — 对应 subjects
// Code 可空；非空时唯一
type Subject struct {
	ID   int64   `gorm:"primaryKey;autoIncrement"                                json:"id"`
	Name string  `gorm:"type:varchar(100);not null;uniqueIndex:uk_subjects_name" json:"name"`
	Code *string `gorm:"type:varchar(32);uniqueIndex:uk_subjects_code"          json:"code,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
