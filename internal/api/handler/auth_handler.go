package handler

import (
	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录，用户名不存在时自动注册为学生
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authSvc.LoginOrRegister(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Register 注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, user)
}

// Profile 按用户名查询资料
// GET /api/auth/profile?username=xxx
func (h *AuthHandler) Profile(c *gin.Context) {
	var q dto.ProfileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, codeInvalidParams, "username 不能为空")
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), q.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, user)
}
