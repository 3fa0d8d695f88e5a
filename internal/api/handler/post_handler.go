package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/response"
)

// CreatePost 发布失物/招领帖子
// @Summary 发布帖子
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "帖子内容（status 字段会被忽略）"
// @Success 201 {object} model.PostDetail
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	post, err := h.postService.CreatePost(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// ListPosts 帖子列表，按创建时间倒序
// @Summary 帖子列表
// @Tags posts
// @Produce json
// @Param kind query string false "lost 或 found"
// @Param status query string false "open 或 resolved"
// @Param category query string false "分类（不区分大小写）"
// @Param q query string false "标题/描述/地点关键字"
// @Success 200 {array} model.PostDetail
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context(), service.ListPostsFilter{
		Kind:     c.Query("kind"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost 帖子详情
// @Summary 帖子详情
// @Tags posts
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} model.PostDetail
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// ResolvePost 标记为已解决（单向，重复调用返回 409）
// @Summary 标记帖子已解决
// @Tags posts
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} service.ResolveResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/posts/{id}/resolve [put]
func (h *Handler) ResolvePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	res, err := h.postService.ResolvePost(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
