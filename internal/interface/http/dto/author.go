package dto

import (
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/author"
)

// AuthorPayload 创建作者请求体
type AuthorPayload struct {
	Name string `json:"name" validate:"required,min=2,max=100" example:"Frank Herbert"`
}

// ParseAuthorPayload 解析并校验作者请求体
func ParseAuthorPayload(body []byte) (*AuthorPayload, error) {
	var p AuthorPayload
	if err := Decode(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AuthorResponse 作者响应
type AuthorResponse struct {
	ID        string    `json:"id" example:"6f1c2f9e-7b0a-4d7e-9b1a-0c5e7f2d3a44"`
	Name      string    `json:"name" example:"Frank Herbert"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAuthorResponse 领域实体 → HTTP响应
func NewAuthorResponse(a *author.Author) *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewAuthorListResponse 作者列表响应
func NewAuthorListResponse(authors []*author.Author) []*AuthorResponse {
	out := make([]*AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, NewAuthorResponse(a))
	}
	return out
}
