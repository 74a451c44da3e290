package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// Context中的键
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
	ContextToken  = "access_token"
)

// Blacklist Token黑名单（infrastructure/persistence/redis.SessionStore实现）
type Blacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 先从Header提取Bearer Token，没有时再读Cookie
// 2. 检查Token黑名单（已登出的Token）
// 3. 验证签名与有效期
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  Blacklist
	cookieName string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist Blacklist, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
		cookieName: cookieName,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	books.POST("", auth.RequireAuth(), bookHandler.Create)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取Token
		tokenString, err := m.extractToken(c)
		if err != nil {
			response.Error(c, err)
			return
		}

		// 2. 检查黑名单
		// Redis不可用时拒绝请求(500)，不放行可能已注销的Token
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			return
		}
		if revoked {
			response.Error(c, apperrors.ErrTokenRevoked)
			return
		}

		// 3. 验证Token并解析Claims（ErrTokenExpired、ErrInvalidToken都是401）
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err)
			return
		}

		// 4. 注入用户信息
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Set(ContextToken, tokenString)
		response.SetLogger(c, response.Logger(c).With(zap.String("user_id", claims.UserID)))

		c.Next()
	}
}

// RequireAdmin 要求管理员角色
// 必须放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != user.RoleAdmin {
			response.Error(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// extractToken Authorization: Bearer <token> 优先，其次Cookie
func (m *AuthMiddleware) extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.ErrInvalidToken
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", apperrors.ErrUnauthorized
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回空字符串
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetEmail 从Context获取当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// GetRole 从Context获取当前登录用户角色
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// GetClaims 从Context获取完整的Token声明
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetToken 从Context获取原始Access Token（登出时加入黑名单）
func GetToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
