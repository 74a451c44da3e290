package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// parseBody 读取请求体并交给dto包的解析函数
func parseBody[T any](c *gin.Context, parse func([]byte) (*T, error)) (*T, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.ErrBindError
	}
	return parse(body)
}
