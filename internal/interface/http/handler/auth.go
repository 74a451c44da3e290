package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// CookieOptions 登录Cookie配置
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler 认证HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 登录同时返回Token并写入HttpOnly Cookie，浏览器与API客户端都能使用
type AuthHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	refreshUseCase  *appuser.RefreshUseCase
	cookie          CookieOptions
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshUseCase,
	cookie CookieOptions,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		refreshUseCase:  refreshUseCase,
		cookie:          cookie,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  auth.admin_emails中的邮箱注册为管理员
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} appuser.UserInfo "注册成功"
// @Failure      400 {object} response.ErrorBody "参数错误或密码强度不足"
// @Failure      409 {object} response.ErrorBody "邮箱已存在"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	// 1. 解析并校验参数（格式、长度）
	req, err := parseBody(c, dto.ParseRegisterRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用应用层用例（密码强度、邮箱唯一性在领域层校验）
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token并写入Cookie
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} appuser.LoginResponse "登录成功"
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "邮箱或密码错误"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req, err := parseBody(c, dto.ParseLoginRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, result.AccessToken, int(h.cookie.MaxAge.Seconds()))
	response.OK(c, result)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} appuser.RefreshResponse
// @Failure      401 {object} response.ErrorBody "Token无效或已过期"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	req, err := parseBody(c, dto.ParseRefreshRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, result.AccessToken, int(h.cookie.MaxAge.Seconds()))
	response.OK(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  当前Access Token加入黑名单并清除Cookie
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.MessageBody
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /auth/logout [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	err := h.logoutUseCase.Execute(c.Request.Context(), claims.UserID, middleware.GetToken(c), claims.ExpiresAt.Time)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, "", -1)
	response.Message(c, "Logged out")
}

// Me 当前登录用户
// @Summary      当前用户
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.PrincipalResponse
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	response.OK(c, dto.PrincipalResponse{
		ID:    middleware.GetUserID(c),
		Email: middleware.GetEmail(c),
		Role:  middleware.GetRole(c),
	})
}

// setCookie 写入或清除（maxAge<0）登录Cookie
func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	if h.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
