package handlers

import (
	"net/http"
	"strings"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	gallery *services.GalleryService
}

func NewGalleryHandler(gallery *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// ListMedia godoc
// @Summary     List media
// @Description Local uploads newest first, then remote images referenced by any entity.
// @Tags        gallery
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.GalleryResponse
// @Router      /api/v1/admin/gallery [get]
func (h *GalleryHandler) ListMedia(c *gin.Context) {
	items, err := h.gallery.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.GalleryResponse{Items: make([]models.GalleryItemResponse, 0, len(items))}
	for _, it := range items {
		item := models.GalleryItemResponse{
			URL:    it.URL,
			Kind:   string(it.Ref.Kind),
			Path:   it.Path,
			Size:   it.Size,
			UsedBy: it.UsedBy,
		}
		if !it.ModifiedAt.IsZero() {
			t := it.ModifiedAt
			item.ModifiedAt = &t
		}
		resp.Items = append(resp.Items, item)
	}
	c.JSON(http.StatusOK, resp)
}

// UploadMedia godoc
// @Summary     Upload an image
// @Description Stores one file and returns its public URL. folder=blogs stores it with blog covers.
// @Tags        gallery
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file   formData file   true  "Image"
// @Param       folder formData string false "uploads or blogs"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/v1/admin/gallery/upload [post]
func (h *GalleryHandler) UploadMedia(c *gin.Context) {
	f, ok := parseFormOrFail(c)
	if !ok {
		return
	}
	files := f.uploads()
	if len(files) == 0 {
		respondError(c, imageref.ErrNoImage)
		return
	}

	dir := imageref.DirUploads
	if folder := f.str("folder"); folder != nil {
		switch strings.ToLower(strings.TrimSpace(*folder)) {
		case "", "uploads":
		case "blogs":
			dir = imageref.DirBlogs
		default:
			respondError(c, &services.ValidationError{Field: "folder", Message: "must be uploads or blogs"})
			return
		}
	}

	ref, url, err := h.gallery.Upload(c.Request.Context(), dir, files[0])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.UploadResponse{URL: url, Kind: string(ref.Kind)})
}

// DeleteMedia godoc
// @Summary     Delete a local upload
// @Description Refused while any painting, category or blog post still uses the image.
// @Tags        gallery
// @Produce     json
// @Security    BearerAuth
// @Param       path query string true "Path under the upload directory, or its URL"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/admin/gallery [delete]
func (h *GalleryHandler) DeleteMedia(c *gin.Context) {
	target := strings.TrimSpace(c.DefaultQuery("path", c.Query("url")))
	if target == "" {
		badRequest(c, "path is required", nil)
		return
	}

	if err := h.gallery.Delete(c.Request.Context(), target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "image deleted"})
}
