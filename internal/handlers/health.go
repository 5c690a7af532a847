package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"art-gallery-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db      *sqlx.DB
	storage string
}

func NewHealthHandler(db *sqlx.DB, storage string) *HealthHandler {
	return &HealthHandler{db: db, storage: storage}
}

// Health godoc
// @Summary     Health check
// @Description Reports whether the database answers and which storage backend receives uploads
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Failure     503 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	response := models.HealthResponse{
		Status:   "ok",
		Database: "ok",
		Storage:  h.storage,
	}
	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("health check database ping failed", "error", err)
		response.Status = "degraded"
		response.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
