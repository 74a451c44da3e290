package book

import (
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookshelf/internal/domain/author"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID为创建时生成的UUID字符串
// 2. Title全局唯一(数据库唯一索引保证)
// 3. Author与LikedBy只在读取时填充，写入时以AuthorID为准
type Book struct {
	ID        string
	Title     string  // 3-100个字符
	Rating    int     // 1-5
	Price     float64 // 0-1000
	AuthorID  string
	Author    *author.Author
	LikedBy   []string // 点赞用户ID(按点赞时间排序,允许重复)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Data 图书可写字段
// 创建与更新共用：更新是整体替换，不是部分修改
type Data struct {
	Title    string
	Rating   int
	Price    float64
	AuthorID string
}

// Like 点赞记录（book_likes表的一行）
type Like struct {
	ID        string
	BookID    string
	UserID    string
	CreatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(data Data) *Book {
	now := time.Now()
	b := &Book{
		ID:        uuid.NewString(),
		LikedBy:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.apply(data)
	return b
}

// Replace 用新数据整体替换可写字段
func (b *Book) Replace(data Data) {
	b.apply(data)
	b.UpdatedAt = time.Now()
}

func (b *Book) apply(data Data) {
	b.Title = data.Title
	b.Rating = data.Rating
	b.Price = data.Price
	b.AuthorID = data.AuthorID
}

// NewLike 创建点赞记录
func NewLike(bookID, userID string) *Like {
	return &Like{
		ID:        uuid.NewString(),
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}

// IsLikedBy 用户是否点赞过该图书
func (b *Book) IsLikedBy(userID string) bool {
	for _, id := range b.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
