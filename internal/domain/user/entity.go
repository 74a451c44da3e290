package user

import (
	"time"

	"github.com/google/uuid"
)

// 角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码为bcrypt哈希值，实体不提供任何返回明文的方法
// 2. Role决定是否能访问管理员接口（RequireAdmin）
// 3. 领域实体不依赖GORM tag，由Repository负责映射
type User struct {
	ID        string
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name, role string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
