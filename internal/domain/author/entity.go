package author

import (
	"time"

	"github.com/google/uuid"
)

// Author 作者实体
// 图书通过AuthorID引用作者，作者本身不感知图书
type Author struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAuthor 创建作者（工厂方法，生成UUID）
func NewAuthor(name string) *Author {
	now := time.Now()
	return &Author{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
