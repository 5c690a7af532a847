package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type PaintingsHandler struct {
	paintings  *services.PaintingService
	categories *services.CategoryService
	present    presenter
}

func NewPaintingsHandler(paintings *services.PaintingService, categories *services.CategoryService, resolver *imageref.Resolver) *PaintingsHandler {
	return &PaintingsHandler{
		paintings:  paintings,
		categories: categories,
		present:    presenter{resolver: resolver},
	}
}

// ListPaintings godoc
// @Summary     List paintings
// @Tags        paintings
// @Produce     json
// @Param       category  query string false "Category id"
// @Param       available query bool   false "Only available (or sold) paintings"
// @Param       featured  query bool   false "Only featured paintings"
// @Param       search    query string false "Title or artist search"
// @Param       limit     query int    false "Page size"
// @Param       offset    query int    false "Page offset"
// @Success     200 {object} models.PaintingListResponse
// @Router      /api/v1/paintings [get]
func (h *PaintingsHandler) ListPaintings(c *gin.Context) {
	filter, err := paintingFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	paintings, total, err := h.paintings.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := h.categoryIndex(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.PaintingListResponse{
		Paintings: make([]models.PaintingResponse, 0, len(paintings)),
		Total:     total,
	}
	for _, p := range paintings {
		resp.Paintings = append(resp.Paintings, h.present.painting(p, categories))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPainting godoc
// @Summary     Get a painting
// @Tags        paintings
// @Produce     json
// @Param       id path string true "Painting id"
// @Success     200 {object} models.PaintingResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/paintings/{id} [get]
func (h *PaintingsHandler) GetPainting(c *gin.Context) {
	p, err := h.paintings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, p, nil)
}

// CreatePainting godoc
// @Summary     Create a painting
// @Description Multipart form. Files go in "images"; pre-resolved URLs in "imageUrls".
// @Tags        paintings
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.PaintingResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/v1/admin/paintings [post]
func (h *PaintingsHandler) CreatePainting(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := paintingInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	p, err := h.paintings.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, p, nil)
}

// UpdatePainting godoc
// @Summary     Update a painting
// @Description Omitted fields are left untouched. "existingImages" lists the images to keep;
// @Description new files and "imageUrls" are appended after them.
// @Tags        paintings
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Painting id"
// @Success     200 {object} models.PaintingResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/paintings/{id} [put]
func (h *PaintingsHandler) UpdatePainting(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := paintingInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	p, report, err := h.paintings.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, p, report)
}

// DeletePainting godoc
// @Summary     Delete a painting
// @Tags        paintings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Painting id"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/paintings/{id} [delete]
func (h *PaintingsHandler) DeletePainting(c *gin.Context) {
	report, err := h.paintings.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "painting deleted",
		Cleanup: cleanupResponse(report),
	})
}

func (h *PaintingsHandler) respond(c *gin.Context, status int, p *models.Painting, report services.CleanupReport) {
	categories, err := h.categoryIndex(c.Request.Context())
	if err != nil {
		// The painting itself was stored; only the category summary is lost.
		slog.Warn("failed to load categories for painting response", "painting_id", p.ID, "error", err)
	}
	resp := h.present.painting(p, categories)
	resp.Cleanup = cleanupResponse(report)
	c.JSON(status, resp)
}

func (h *PaintingsHandler) categoryIndex(ctx context.Context) (map[string]*models.Category, error) {
	list, err := h.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Category, len(list))
	for _, cat := range list {
		index[cat.ID] = cat
	}
	return index, nil
}

func paintingFilter(c *gin.Context) (models.PaintingFilter, error) {
	filter := models.PaintingFilter{
		CategoryID: strings.TrimSpace(c.DefaultQuery("category", c.Query("category_id"))),
		Search:     strings.TrimSpace(c.Query("search")),
		Limit:      defaultPageSize,
	}

	for _, q := range []struct {
		key string
		dst **bool
	}{
		{"available", &filter.Available},
		{"featured", &filter.Featured},
	} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &services.ValidationError{Field: q.key, Message: "must be true or false"}
		}
		*q.dst = &b
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, &services.ValidationError{Field: "limit", Message: "must be a positive number"}
		}
		filter.Limit = min(n, maxPageSize)
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, &services.ValidationError{Field: "offset", Message: "must not be negative"}
		}
		filter.Offset = n
	}
	return filter, nil
}

func paintingInput(f *form) (services.PaintingInput, error) {
	in := services.PaintingInput{
		Title:       f.str("title"),
		Description: f.str("description"),
		Artist:      f.str("artist"),
		CategoryID:  f.str("categoryId", "category_id", "category"),
		Currency:    f.str("currency"),
		Medium:      f.str("medium"),
		Dimensions:  f.str("dimensions"),
		Files:       f.uploads(),
	}

	var err error
	if in.PriceCents, err = f.cents("price"); err != nil {
		return in, err
	}
	if in.Year, err = f.int64("year"); err != nil {
		return in, err
	}
	if in.IsAvailable, err = f.boolean("isAvailable", "is_available"); err != nil {
		return in, err
	}
	if in.IsFeatured, err = f.boolean("isFeatured", "is_featured"); err != nil {
		return in, err
	}

	urls, _, err := f.list("imageUrls", "image_urls", "imageUrl", "image_url")
	if err != nil {
		return in, err
	}
	in.ImageURLs = urls

	if in.KeepImages, in.KeepSet, err = f.list("existingImages", "existing_images"); err != nil {
		return in, err
	}
	return in, nil
}
