package handler

import (
	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 全部用户
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, users)
}

// ListStudents 学生用户
// GET /api/users/students
func (h *UserHandler) ListStudents(c *gin.Context) {
	users, err := h.userSvc.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, users)
}

// ListTeachers 教师用户
// GET /api/users/teachers
func (h *UserHandler) ListTeachers(c *gin.Context) {
	users, err := h.userSvc.ListTeachers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, users)
}

// GetUser 用户详情
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}

// CreateUser 创建用户（教师）
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser 更新姓名与邮箱。教师可改任意用户，其他人只能改自己
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role != string(model.RoleTeacher) && callerID != id {
		response.Forbidden(c, 10003, "只能修改自己的资料")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}
