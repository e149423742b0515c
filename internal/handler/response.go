package handler

import (
	"errors"
	"net/http"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/model"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// HandleError 按错误类型选择状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, logic.ErrSoulbound):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrNotInitialized):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrAmountOverflow),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidAchievement),
		errors.Is(err, event.ErrInvalidEvent):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error("请求处理失败, path: %s, err: %v", c.FullPath(), err)
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
