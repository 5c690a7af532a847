package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

var notFound = []error{
	repository.ErrPaintingNotFound,
	repository.ErrCategoryNotFound,
	repository.ErrBlogPostNotFound,
	repository.ErrOrderNotFound,
	repository.ErrContactNotFound,
	repository.ErrUserNotFound,
	services.ErrImageNotFound,
}

var conflict = []error{
	services.ErrInvalidTransition,
	services.ErrCategoryInUse,
	services.ErrPaintingUnavailable,
	services.ErrImageInUse,
	repository.ErrDuplicateCategory,
	repository.ErrDuplicateSlug,
	repository.ErrDuplicateEmail,
}

// respondError maps service and repository errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed", Message: verr.Error()})
		return
	case errors.Is(err, imageref.ErrNoImage):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "image required", Message: err.Error()})
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: err.Error()})
		return
	}

	for _, target := range notFound {
		if errors.Is(err, target) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: target.Error()})
			return
		}
	}
	for _, target := range conflict {
		if errors.Is(err, target) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: target.Error(), Message: err.Error()})
			return
		}
	}

	slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
