package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用领域服务、返回响应
// 2. 更新与删除前先查询一次，不存在时直接返回404，服务层不做存在性检查
// 3. 所有错误交给response.Error统一转换为HTTP状态码
type BookHandler struct {
	bookService book.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(bookService book.Service) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// GetAll 图书列表
// @Summary      图书列表
// @Description  返回全部图书（含作者），不分页
// @Tags         图书
// @Produce      json
// @Success      200 {array}  dto.BookResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /books [get]
func (h *BookHandler) GetAll(c *gin.Context) {
	books, err := h.bookService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookListResponse(books))
}

// GetByID 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id   path      string  true  "图书ID"
// @Success      200  {object}  dto.BookResponse
// @Failure      404  {object}  response.ErrorBody "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetByID(c *gin.Context) {
	raw := c.Param("id")
	// 非UUID不可能存在，直接404，不把非法值交给数据库
	id, err := dto.ParseUUID(raw)
	if err != nil {
		response.Error(c, book.ErrBookNotFound(raw))
		return
	}

	b, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// Create 创建图书
// @Summary      创建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookPayload true "图书信息"
// @Success      201 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      409 {object} response.ErrorBody "书名已存在"
// @Router       /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	// 1. 解析并校验请求体
	payload, err := parseBody(c, dto.ParseBookPayload)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用领域服务
	b, err := h.bookService.Create(c.Request.Context(), payload.ToData())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewBookResponse(b))
}

// Like 点赞
// @Summary      点赞图书
// @Description  同一用户可以重复点赞，每次追加一条记录
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LikePayload true "图书与用户"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误或图书/用户不存在"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /books/like [post]
func (h *BookHandler) Like(c *gin.Context) {
	payload, err := parseBody(c, dto.ParseLikePayload)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.bookService.LikeBook(c.Request.Context(), payload.BookID, payload.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// Update 整体替换图书
// @Summary      更新图书
// @Description  全量更新，所有字段必填
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string          true "图书ID（UUID）"
// @Param        request body dto.BookPayload true "图书信息"
// @Success      200 {object} response.MessageBody
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	// 顺序：ID格式 → 请求体校验 → 存在性检查
	id, err := dto.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := parseBody(c, dto.ParseBookPayload)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !h.exists(c, id) {
		return
	}

	if _, err := h.bookService.UpdateByID(c.Request.Context(), id, payload.ToData()); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, fmt.Sprintf("Book with id %s has been updated", id))
}

// Delete 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "图书ID（UUID）"
// @Success      200 {object} response.MessageBody
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := dto.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.exists(c, id) {
		return
	}

	if err := h.bookService.DeleteByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	// 客户端依赖这段文本，保持原样
	response.Message(c, fmt.Sprintf("Order with id %s has been deleted", id))
}

// exists 确认图书存在，不存在时已写入404响应
func (h *BookHandler) exists(c *gin.Context, id string) bool {
	if _, err := h.bookService.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}
