package model

// User 用户表 — 对应 users
// Password 为不透明凭据，登录时按原值比对
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"                   json:"id"`
	Username string `gorm:"type:varchar(100);not null;uniqueIndex:uk_users_username" json:"username"`
	Password string `gorm:"type:varchar(255);not null"                 json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index"            json:"role"`
	Name     string `gorm:"type:varchar(100)"                          json:"name"`
	Email    string `gorm:"type:varchar(255)"                          json:"email"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsTeacher 是否教师
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
