package config_test

import (
	"testing"

	"art-gallery-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REMOTE_STORAGE_MARKER", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvDevelopment, cfg.Environment)
	assert.Equal(t, "http://localhost:5000", cfg.DevelopmentOrigin)
	assert.Equal(t, config.BackendLocal, cfg.StorageBackend)
	assert.Equal(t, "cloudinary", cfg.RemoteStorageMarker)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_BackendMarker(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "paintings")
	t.Setenv("REMOTE_STORAGE_MARKER", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "amazonaws.com", cfg.RemoteStorageMarker)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			JWTSecret:      "secret",
			Environment:    config.EnvDevelopment,
			UploadDir:      "./uploads",
			StorageBackend: config.BackendLocal,
		}
	}

	t.Run("local is valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown environment", func(t *testing.T) {
		cfg := base()
		cfg.Environment = "staging"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = "ftp"
		assert.Error(t, cfg.Validate())
	})

	t.Run("cloudinary needs credentials", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = config.BackendCloudinary
		assert.Error(t, cfg.Validate())

		cfg.CloudinaryCloudName = "demo"
		cfg.CloudinaryAPIKey = "key"
		cfg.CloudinaryAPISecret = "secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("supabase needs credentials", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = config.BackendSupabase
		assert.Error(t, cfg.Validate())
	})
}
