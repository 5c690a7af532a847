package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"art-gallery-backend/internal/config"
	"art-gallery-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const secret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	assert.NoError(t, err)
	return s
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg))
	router.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get(middleware.UserIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: secret}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"malformed", "Bearer invalid-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u1", "role": "admin", "exp": future}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"missing sub", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "admin", "exp": future}), http.StatusUnauthorized},
		{"not admin", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "role": "viewer", "exp": future}), http.StatusForbidden},
		{"valid admin", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "role": "admin", "exp": future}), http.StatusOK},
	}

	router := protectedRouter(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthMiddleware_SetsUserID(t *testing.T) {
	cfg := &config.Config{JWTSecret: secret}
	token := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "user-123", "role": "admin"})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CORS("http://localhost:3000, https://galleryart.com/"))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/x", nil)
		req.Header.Set("Origin", "https://galleryart.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "https://galleryart.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/x", nil)
		req.Header.Set("Origin", "https://evil.test")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req, _ := http.NewRequest("OPTIONS", "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestLogging_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req, _ := http.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
