package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"plik-backend/internal/domains/blog/model"
	"plik-backend/internal/domains/blog/service"
	"plik-backend/internal/shared/middleware"
	"plik-backend/internal/shared/response"
	"plik-backend/pkg/logger"
)

// =====================================================
// BLOG HANDLER
// =====================================================

type BlogHandler struct {
	blogService service.ServiceInterface
}

func NewBlogHandler(blogService service.ServiceInterface) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// requestLanguage is the resolved language, or "" when ?lang=all.
func requestLanguage(c *gin.Context) string {
	if strings.EqualFold(c.Query("lang"), model.LanguageAll) {
		return ""
	}
	return middleware.GetLanguage(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid post ID")
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListPosts lists posts with filters
// GET /api/v1/blog/posts
func (h *BlogHandler) ListPosts(c *gin.Context) {
	// Step 1: Bind query
	var req model.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Default to the visitor's language
	if strings.EqualFold(req.Language, model.LanguageAll) {
		req.Language = model.LanguageAll
	} else {
		req.Language = middleware.GetLanguage(c)
	}

	// Step 3: Call service
	result, err := h.blogService.List(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, result.Posts, &response.Meta{
		Total:  result.Total,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

// GetFeaturedPosts
// GET /api/v1/blog/posts/featured
func (h *BlogHandler) GetFeaturedPosts(c *gin.Context) {
	posts, err := h.blogService.GetFeaturedByLanguage(c.Request.Context(), requestLanguage(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// GetRecentPosts
// GET /api/v1/blog/posts/recent?limit=3
func (h *BlogHandler) GetRecentPosts(c *gin.Context) {
	posts, err := h.blogService.GetRecent(c.Request.Context(), queryLimit(c), requestLanguage(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// GetPostBySlug
// GET /api/v1/blog/posts/slug/:slug
func (h *BlogHandler) GetPostBySlug(c *gin.Context) {
	post, err := h.blogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// GetPost
// GET /api/v1/blog/posts/:id
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.blogService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// GetRelatedPosts
// GET /api/v1/blog/posts/:id/related?limit=3
func (h *BlogHandler) GetRelatedPosts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	posts, err := h.blogService.GetRelated(c.Request.Context(), id, queryLimit(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// GetPostsByCategory
// GET /api/v1/blog/categories/:category/posts
func (h *BlogHandler) GetPostsByCategory(c *gin.Context) {
	posts, err := h.blogService.GetByCategory(c.Request.Context(), c.Param("category"), requestLanguage(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// GetCategories
// GET /api/v1/blog/categories
func (h *BlogHandler) GetCategories(c *gin.Context) {
	response.Success(c, http.StatusOK, model.CategoriesResponse{Categories: h.blogService.Categories()})
}

// GetTags
// GET /api/v1/blog/tags
func (h *BlogHandler) GetTags(c *gin.Context) {
	tags, err := h.blogService.GetAllTags(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.TagsResponse{Tags: tags})
}

// =====================================================
// FEEDS
// =====================================================

// RSS
// GET /blog/rss.xml?lang=fr
func (h *BlogHandler) RSS(c *gin.Context) {
	body, err := h.blogService.Feed(c.Request.Context(), requestLanguage(c))
	if err != nil {
		logger.Error("failed to render rss feed", err)
		c.String(http.StatusInternalServerError, "feed unavailable")
		return
	}
	c.Header("Cache-Control", "public, max-age=900")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// Sitemap
// GET /sitemap.xml
func (h *BlogHandler) Sitemap(c *gin.Context) {
	body, err := h.blogService.Sitemap(c.Request.Context())
	if err != nil {
		logger.Error("failed to render sitemap", err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// AdminListPosts lists every post regardless of language
// GET /api/v1/admin/blog/posts
func (h *BlogHandler) AdminListPosts(c *gin.Context) {
	posts, err := h.blogService.GetAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Total: len(posts)})
}

// ExportPosts downloads the filtered posts as xlsx
// GET /api/v1/admin/blog/posts/export
func (h *BlogHandler) ExportPosts(c *gin.Context) {
	var req model.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	body, err := h.blogService.ExportXLSX(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("blog-posts-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

// CreatePost
// POST /api/v1/admin/blog/posts
func (h *BlogHandler) CreatePost(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Validate request
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err.Error(), err)
		return
	}

	// Step 3: Call service
	post, err := h.blogService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, post)
}

// UpdatePost applies a partial update
// PUT|PATCH /api/v1/admin/blog/posts/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err.Error(), err)
		return
	}

	post, err := h.blogService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// ToggleFeatured
// POST /api/v1/admin/blog/posts/:id/toggle-featured
func (h *BlogHandler) ToggleFeatured(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.blogService.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// SetFeatured
// PUT /api/v1/admin/blog/posts/:id/featured {"featured": true}
func (h *BlogHandler) SetFeatured(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err.Error(), err)
		return
	}

	post, err := h.blogService.SetFeatured(c.Request.Context(), id, bool(*req.Featured))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// DeletePost
// DELETE /api/v1/admin/blog/posts/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true, "id": id})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *BlogHandler) handleError(c *gin.Context, err error) {
	status, code := mapBlogError(err)
	if status == http.StatusInternalServerError {
		logger.Error("blog request failed", err)
		response.InternalServerError(c, "Failed to process blog request")
		return
	}

	var blogErr *model.BlogError
	message := err.Error()
	if errors.As(err, &blogErr) {
		message = blogErr.Message
	}
	response.ErrorResponse(c, status, code, message)
}

func mapBlogError(err error) (int, string) {
	var blogErr *model.BlogError
	if errors.As(err, &blogErr) {
		switch blogErr.Code {
		case model.ErrCodePostNotFound:
			return http.StatusNotFound, blogErr.Code
		case model.ErrCodeInvalidInput, model.ErrCodeInvalidImage, model.ErrCodeInvalidCategory:
			return http.StatusBadRequest, blogErr.Code
		case model.ErrCodeSlugUnavailable:
			return http.StatusConflict, blogErr.Code
		default:
			return http.StatusInternalServerError, "INTERNAL_ERROR"
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
