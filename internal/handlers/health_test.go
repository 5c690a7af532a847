package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"art-gallery-backend/internal/handlers"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(h *handlers.HealthHandler) (*httptest.ResponseRecorder, models.HealthResponse) {
		router := gin.New()
		router.GET("/health", h.Health)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var body models.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	t.Run("reachable database", func(t *testing.T) {
		w, body := serve(handlers.NewHealthHandler(testutil.NewDB(t), "cloudinary"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.HealthResponse{Status: "ok", Database: "ok", Storage: "cloudinary"}, body)
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.NewDB(t)
		require.NoError(t, db.Close())

		w, body := serve(handlers.NewHealthHandler(db, "local"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unreachable", body.Database)
		assert.Equal(t, "local", body.Storage)
	})
}
