package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/service"
	pkgerrors "daily-attendance/backend/pkg/errors"
	"daily-attendance/backend/pkg/response"
)

// 业务错误码
const (
	codeInvalidParams      = 10001
	codeBodyTooLarge       = 10005
	codeInvalidCredentials = 11001
	codeNotFound           = 20001
	codeConflict           = 20002
	codeInvalidInput       = 20003
)

// respondError 按错误类别写入响应：NotFound→404，Conflict→409，InvalidInput→400，其余 500
func respondError(c *gin.Context, err error) {
	msg := pkgerrors.Message(err)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, codeInvalidCredentials, msg)
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, msg)
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, codeConflict, msg)
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		response.BadRequest(c, codeInvalidInput, msg)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// respondBindError 请求体绑定失败
func respondBindError(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidParams, "参数校验失败", err.Error())
}
