package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/domain/author"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	authorService author.Service
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(authorService author.Service) *AuthorHandler {
	return &AuthorHandler{authorService: authorService}
}

// List 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Success      200 {array} dto.AuthorResponse
// @Router       /authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.authorService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAuthorListResponse(authors))
}

// Get 作者详情
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Param        id  path string true "作者ID"
// @Success      200 {object} dto.AuthorResponse
// @Failure      404 {object} response.ErrorBody "作者不存在"
// @Router       /authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	raw := c.Param("id")
	id, err := dto.ParseUUID(raw)
	if err != nil {
		response.Error(c, author.ErrAuthorNotFound(raw))
		return
	}

	a, err := h.authorService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAuthorResponse(a))
}

// Create 创建作者（仅管理员）
// @Summary      创建作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AuthorPayload true "作者信息"
// @Success      201 {object} dto.AuthorResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "非管理员"
// @Router       /authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	payload, err := parseBody(c, dto.ParseAuthorPayload)
	if err != nil {
		response.Error(c, err)
		return
	}

	a, err := h.authorService.Create(c.Request.Context(), payload.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAuthorResponse(a))
}
