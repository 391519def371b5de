package dto

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Code string `json:"code" binding:"omitempty,max=32"`
}
