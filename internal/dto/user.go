package dto

// ── 用户模块 DTO ──

// CreateUserRequest 教师创建用户请求；Role 为空时默认 STUDENT
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=255"`
	Role     string `json:"role"`
	Name     string `json:"name"     binding:"omitempty,max=100"`
	Email    string `json:"email"    binding:"omitempty,email"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}
