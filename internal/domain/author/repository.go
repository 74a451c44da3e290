package author

import "context"

// Repository 作者仓储接口
type Repository interface {
	// Create 创建作者
	Create(ctx context.Context, author *Author) error

	// FindByID 根据ID查找作者
	// 不存在时返回ErrAuthorNotFound(id)
	FindByID(ctx context.Context, id string) (*Author, error)

	// FindAll 按创建时间升序返回全部作者
	FindAll(ctx context.Context) ([]*Author, error)
}
