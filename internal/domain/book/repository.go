package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 存储层条件统一用ErrUniqueViolation、ErrRecordNotFound包装返回
// 3. 读取方法返回的Book已填充Author与LikedBy
type Repository interface {
	// FindAll 返回全部图书，按created_at、id升序
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找图书
	// 不存在时返回ErrRecordNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Create 创建图书并关联作者
	// 书名重复返回ErrUniqueViolation，作者不存在返回ErrRecordNotFound
	Create(ctx context.Context, book *Book) error

	// Update 整体替换书名、评分、价格与作者
	// 图书不存在返回ErrRecordNotFound
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书及其点赞记录(硬删除)
	// 图书不存在返回ErrRecordNotFound
	Delete(ctx context.Context, id string) error

	// AddLike 追加一条点赞记录
	// 图书或用户不存在返回ErrRecordNotFound
	AddLike(ctx context.Context, like *Like) error
}

// Transactor 事务执行器
// fn内通过ctx调用的Repository方法处于同一事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
