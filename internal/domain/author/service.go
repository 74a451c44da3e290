package author

import (
	"context"
	"strings"
)

// Service 作者领域服务
type Service interface {
	Create(ctx context.Context, name string) (*Author, error)
	GetByID(ctx context.Context, id string) (*Author, error)
	List(ctx context.Context) ([]*Author, error)
}

type service struct {
	repo Repository
}

// NewService 创建作者服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create 创建作者（名称长度由DTO层校验，这里只做首尾空白清理）
func (s *service) Create(ctx context.Context, name string) (*Author, error) {
	a := NewAuthor(strings.TrimSpace(name))
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Author, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Author, error) {
	return s.repo.FindAll(ctx)
}
