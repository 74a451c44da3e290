package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（密码加密、角色分配）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, email, password, name string) (*User, error)

	// Login 校验邮箱密码
	Login(ctx context.Context, email, password string) (*User, error)

	// GetByID 根据ID获取用户
	GetByID(ctx context.Context, id string) (*User, error)
}

// Policy 注册策略
type Policy struct {
	AdminEmails []string // 命中的邮箱注册为admin
	BcryptCost  int
}

type service struct {
	repo   Repository
	admins map[string]struct{}
	cost   int
}

// NewService 创建用户服务
func NewService(repo Repository, policy Policy) Service {
	admins := make(map[string]struct{}, len(policy.AdminEmails))
	for _, email := range policy.AdminEmails {
		admins[normalizeEmail(email)] = struct{}{}
	}

	cost := policy.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &service{repo: repo, admins: admins, cost: cost}
}

// Register 用户注册
// 业务规则：
// 1. 密码强度校验（8-64位，包含字母和数字）
// 2. 密码bcrypt加密
// 3. 邮箱唯一性由数据库UNIQUE索引保证
// 4. 邮箱在管理员名单中则分配admin角色
func (s *service) Register(ctx context.Context, email, password, name string) (*User, error) {
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to hash password")
	}

	role := RoleUser
	if _, ok := s.admins[email]; ok {
		role = RoleAdmin
	}

	u := NewUser(email, string(hashedPassword), strings.TrimSpace(name), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return u, nil
}

// Login 用户登录
// 邮箱不存在与密码错误返回同一个错误，避免暴露邮箱是否注册
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "Failed to verify password")
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePasswordStrength 密码强度校验
// 规则：8-64位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return apperrors.ErrWeakPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
