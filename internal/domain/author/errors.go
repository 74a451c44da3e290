package author

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// ErrAuthorNotFound 作者不存在
func ErrAuthorNotFound(id string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeAuthorNotFound, "Author with id %s not found", id)
}
