package handlers

import (
	"net/http"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct {
	categories *services.CategoryService
	present    presenter
}

func NewCategoriesHandler(categories *services.CategoryService, resolver *imageref.Resolver) *CategoriesHandler {
	return &CategoriesHandler{
		categories: categories,
		present:    presenter{resolver: resolver},
	}
}

// ListCategories godoc
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Success     200 {object} models.CategoryListResponse
// @Router      /api/v1/categories [get]
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.CategoryListResponse{Categories: make([]models.CategoryResponse, 0, len(list))}
	for _, cat := range list {
		resp.Categories = append(resp.Categories, h.present.category(cat))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategory godoc
// @Summary     Get a category
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category id"
// @Success     200 {object} models.CategoryResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/categories/{id} [get]
func (h *CategoriesHandler) GetCategory(c *gin.Context) {
	cat, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present.category(cat))
}

// CreateCategory godoc
// @Summary     Create a category
// @Tags        categories
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.CategoryResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/admin/categories [post]
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := categoryInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present.category(cat))
}

// UpdateCategory godoc
// @Summary     Update a category
// @Description A new "image" file or "imageUrl" replaces the image; imageAction=remove clears it.
// @Tags        categories
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category id"
// @Success     200 {object} models.CategoryResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/categories/{id} [put]
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	in, err := categoryInput(f)
	if err != nil {
		respondError(c, err)
		return
	}

	cat, report, err := h.categories.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := h.present.category(cat)
	resp.Cleanup = cleanupResponse(report)
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary     Delete a category
// @Description Refused while paintings still belong to the category.
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category id"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/admin/categories/{id} [delete]
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	report, err := h.categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "category deleted",
		Cleanup: cleanupResponse(report),
	})
}

func categoryInput(f *form) (services.CategoryInput, error) {
	image, err := f.imageChange()
	if err != nil {
		return services.CategoryInput{}, err
	}
	return services.CategoryInput{
		Name:        f.str("name"),
		Description: f.str("description"),
		Image:       image,
	}, nil
}
