package dto

import (
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/author"
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// BookPayload 创建/更新图书请求体
// 更新是整体替换，与创建共用同一组规则
// validate tag说明:
// - title: 3-100个字符(按rune计算)
// - rating: 整数1-5，指针类型用于区分"未传"与0
// - price: 0-1000，指针类型使0成为合法值
type BookPayload struct {
	Title    string   `json:"title" validate:"required,min=3,max=100" example:"Dune"`
	Rating   *int     `json:"rating" validate:"required,min=1,max=5" example:"5"`
	Price    *float64 `json:"price" validate:"required,min=0,max=1000" example:"9.99"`
	AuthorID string   `json:"authorId" validate:"required" example:"6f1c2f9e-7b0a-4d7e-9b1a-0c5e7f2d3a44"`
}

// ParseBookPayload 解析并校验图书请求体
func ParseBookPayload(body []byte) (*BookPayload, error) {
	var p BookPayload
	if err := Decode(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ToData 转换为领域层的写入数据
func (p *BookPayload) ToData() book.Data {
	return book.Data{
		Title:    p.Title,
		Rating:   *p.Rating,
		Price:    *p.Price,
		AuthorID: p.AuthorID,
	}
}

// LikePayload 点赞请求体
type LikePayload struct {
	BookID string `json:"bookId" validate:"required,uuid_any" example:"5b0f7a0e-1f62-4c55-9f2c-2f5d0e3c1a11"`
	UserID string `json:"userId" validate:"required,uuid_any" example:"6f1c2f9e-7b0a-4d7e-9b1a-0c5e7f2d3a44"`
}

// ParseLikePayload 解析并校验点赞请求体，ID统一为小写规范形式
func ParseLikePayload(body []byte) (*LikePayload, error) {
	var p LikePayload
	if err := Decode(body, &p); err != nil {
		return nil, err
	}
	p.BookID, _ = ParseUUID(p.BookID)
	p.UserID, _ = ParseUUID(p.UserID)
	return &p, nil
}

// BookResponse 图书响应
type BookResponse struct {
	ID        string          `json:"id" example:"5b0f7a0e-1f62-4c55-9f2c-2f5d0e3c1a11"`
	Title     string          `json:"title" example:"Dune"`
	Rating    int             `json:"rating" example:"5"`
	Price     float64         `json:"price" example:"9.99"`
	AuthorID  string          `json:"authorId" example:"6f1c2f9e-7b0a-4d7e-9b1a-0c5e7f2d3a44"`
	Author    *AuthorResponse `json:"author,omitempty"`
	LikedBy   []string        `json:"likedBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewBookResponse 领域实体 → HTTP响应
func NewBookResponse(b *book.Book) *BookResponse {
	likedBy := b.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Rating:    b.Rating,
		Price:     b.Price,
		AuthorID:  b.AuthorID,
		Author:    newAuthorResponsePtr(b.Author),
		LikedBy:   likedBy,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBookListResponse 列表响应（空列表返回[]而不是null）
func NewBookListResponse(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

func newAuthorResponsePtr(a *author.Author) *AuthorResponse {
	if a == nil {
		return nil
	}
	return NewAuthorResponse(a)
}
