package handlers

import (
	"net/http"
	"strings"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	blog    *services.BlogService
	present presenter
}

func NewBlogHandler(blog *services.BlogService, resolver *imageref.Resolver) *BlogHandler {
	return &BlogHandler{
		blog:    blog,
		present: presenter{resolver: resolver},
	}
}

// ListPublished godoc
// @Summary     List published blog posts
// @Tags        blog
// @Produce     json
// @Success     200 {object} models.BlogListResponse
// @Router      /api/v1/blog [get]
func (h *BlogHandler) ListPublished(c *gin.Context) {
	h.list(c, false)
}

// ListAll godoc
// @Summary     List all blog posts including drafts
// @Tags        blog
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.BlogListResponse
// @Router      /api/v1/admin/blog [get]
func (h *BlogHandler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *BlogHandler) list(c *gin.Context, all bool) {
	posts, err := h.blog.List(c.Request.Context(), all)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.BlogListResponse{Posts: make([]models.BlogPostResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, h.present.blogPost(p, "", false))
	}
	c.JSON(http.StatusOK, resp)
}

// GetBySlug godoc
// @Summary     Get a published blog post
// @Tags        blog
// @Produce     json
// @Param       slug path string true "Post slug"
// @Success     200 {object} models.BlogPostResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/blog/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.blog.GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present.blogPost(post, h.blog.Render(post), true))
}

// GetPost godoc
// @Summary     Get any blog post by id
// @Tags        blog
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post id"
// @Success     200 {object} models.BlogPostResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/blog/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present.blogPost(post, h.blog.Render(post), true))
}

// CreatePost godoc
// @Summary     Create a blog post
// @Description Markdown content; optional cover image under "coverImage" or "image".
// @Tags        blog
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.BlogPostResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/v1/admin/blog [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := blogInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.blog.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present.blogPost(post, h.blog.Render(post), true))
}

// UpdatePost godoc
// @Summary     Update a blog post
// @Tags        blog
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post id"
// @Success     200 {object} models.BlogPostResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/blog/{id} [put]
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := blogInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	post, report, err := h.blog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := h.present.blogPost(post, h.blog.Render(post), true)
	resp.Cleanup = cleanupResponse(report)
	c.JSON(http.StatusOK, resp)
}

// DeletePost godoc
// @Summary     Delete a blog post
// @Tags        blog
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post id"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/blog/{id} [delete]
func (h *BlogHandler) DeletePost(c *gin.Context) {
	report, err := h.blog.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "blog post deleted",
		Cleanup: cleanupResponse(report),
	})
}

func blogInput(f *form) (services.BlogInput, error) {
	cover, err := f.imageChange()
	if err != nil {
		return services.BlogInput{}, err
	}
	if cover.File == nil {
		for _, name := range []string{"coverImage", "cover_image"} {
			if files := f.files[name]; len(files) > 0 {
				cover.File = files[0]
				break
			}
		}
	}
	if cover.URL == "" {
		if u := f.str("coverImageUrl", "cover_image_url"); u != nil {
			cover.URL = strings.TrimSpace(*u)
		}
	}

	in := services.BlogInput{
		Title:   f.str("title"),
		Excerpt: f.str("excerpt"),
		Content: f.str("content"),
		Author:  f.str("author"),
		Cover:   cover,
	}
	if in.Tags, in.TagsSet, err = f.list("tags"); err != nil {
		return in, err
	}
	if in.Published, err = f.boolean("published", "isPublished", "is_published"); err != nil {
		return in, err
	}
	return in, nil
}
