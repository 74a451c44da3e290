package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，前三位与HTTP状态码一致（40400 → 404）
// 2. Message是用户友好的提示信息
// 3. Details仅用于参数校验失败，逐项列出每个不合法的字段
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int      `json:"code"`              // 业务错误码
	Message string   `json:"message"`           // 用户友好的错误提示
	Details []string `json:"details,omitempty"` // 字段级错误明细
	Err     error    `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 由错误码推导HTTP状态码
// 规则：Code/100 落在[400, 599]区间时直接使用，否则视为500
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < http.StatusBadRequest || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetails 附带字段级错误明细（返回副本，不修改预定义错误）
func (e *AppError) WithDetails(details ...string) *AppError {
	cp := *e
	cp.Details = append([]string(nil), details...)
	return &cp
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：五位数字，前三位即HTTP状态码
// - 400xx: 参数错误、业务规则校验失败
// - 401xx: 未认证
// - 403xx: 无权限
// - 404xx: 资源不存在
// - 409xx: 资源冲突（唯一约束）
// - 500xx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 参数与业务规则错误（40000-40099）
	ErrCodeBindError      = 40001 // 请求体格式错误
	ErrCodeValidation     = 40002 // 字段校验失败
	ErrCodeInvalidUUID    = 40003 // UUID格式错误
	ErrCodeInvalidRelated = 40004 // 关联记录不存在
	ErrCodeWeakPassword   = 40005 // 密码强度不足

	// 认证错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeTokenRevoked    = 40103 // Token已注销
	ErrCodeInvalidPassword = 40104 // 邮箱或密码错误

	// 授权错误（40300-40399）
	ErrCodeForbidden = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound   = 40401 // 图书不存在
	ErrCodeAuthorNotFound = 40402 // 作者不存在
	ErrCodeUserNotFound   = 40403 // 用户不存在

	// 冲突错误（40900-40999）
	ErrCodeTitleDuplicate = 40901 // 书名已存在
	ErrCodeEmailDuplicate = 40902 // 邮箱已存在

	// 系统级错误码（50000-50099）
	ErrCodeInternal   = 50000 // 内部错误
	ErrCodeRedisError = 50002 // Redis错误
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(ErrCodeInternal, "Internal server error")
	ErrRedisError = New(ErrCodeRedisError, "Session store error")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "Unauthorized")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token has expired")
	ErrTokenRevoked    = New(ErrCodeTokenRevoked, "Token has been revoked")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "Invalid email or password")
	ErrForbidden       = New(ErrCodeForbidden, "Forbidden resource")

	// 资源
	ErrUserNotFound   = New(ErrCodeUserNotFound, "User not found")
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "Email is already registered")

	// 参数错误
	ErrBindError    = New(ErrCodeBindError, "Malformed request body")
	ErrValidation   = New(ErrCodeValidation, "Validation failed")
	ErrInvalidUUID  = New(ErrCodeInvalidUUID, "Validation failed (uuid is expected)")
	ErrWeakPassword = New(ErrCodeWeakPassword, "Password must be 8-64 characters and contain letters and digits")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode 判断错误链中是否存在指定错误码的AppError
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
