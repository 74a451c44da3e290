package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. HTTP状态码表达错误类别（400/401/403/404/409/500）
// 2. Code是业务错误码，前三位与HTTP状态码一致，方便客户端细分错误
// 3. Details仅在参数校验失败时返回，列出所有不合法字段
type ErrorBody struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// MessageBody 仅包含提示信息的响应（更新、删除成功）
type MessageBody struct {
	Message string `json:"message"`
}

// loggerKey 请求级日志实例在gin.Context中的键
const loggerKey = "logger"

// SetLogger 将日志实例注入Context（由日志中间件调用）
func SetLogger(c *gin.Context, log *zap.Logger) {
	c.Set(loggerKey, log)
}

// Logger 从Context获取日志实例，不存在时返回Nop
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// OK 200成功响应，直接返回资源本身
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200成功响应，只返回提示信息
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := bookService.GetByID(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// 非AppError一律视为内部错误：记录完整错误链，只向客户端返回通用提示
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		Logger(c).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
