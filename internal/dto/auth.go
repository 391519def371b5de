package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求；用户名不存在时自动注册为学生
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=255"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=255"`
	Role     string `json:"role"`
	Name     string `json:"name"     binding:"omitempty,max=100"`
	Email    string `json:"email"    binding:"omitempty,email"`
}

// ProfileQuery 资料查询参数
type ProfileQuery struct {
	Username string `form:"username" binding:"required"`
}
