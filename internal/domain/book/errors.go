package book

import (
	"errors"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 存储层条件
// Repository用fmt.Errorf("...: %w", ErrXxx)包装返回，Service用errors.Is识别
var (
	// ErrUniqueViolation 违反唯一约束(书名重复)
	ErrUniqueViolation = errors.New("unique constraint violated")

	// ErrRecordNotFound 目标或关联记录不存在
	ErrRecordNotFound = errors.New("record not found")
)

// 图书领域错误定义
var (
	// ErrNameTaken 书名已存在
	ErrNameTaken = apperrors.New(apperrors.ErrCodeTitleDuplicate, "Name is already taken")

	// ErrBookOrUserMissing 点赞时图书或用户不存在
	// 返回400而不是404：请求体引用了不存在的资源
	ErrBookOrUserMissing = apperrors.New(apperrors.ErrCodeInvalidRelated, "Book or user don't exist")
)

// ErrBookNotFound 图书不存在
func ErrBookNotFound(id string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeBookNotFound, "Book with id %s not found", id)
}
