package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	BackendLocal      = "local"
	BackendCloudinary = "cloudinary"
	BackendSupabase   = "supabase"
	BackendS3         = "s3"
)

type Config struct {
	// Server
	Port         string
	Environment  string
	ClientOrigin string

	// Public origins used to build URLs for locally stored uploads
	ProductionOrigin  string
	DevelopmentOrigin string

	// Local uploads
	UploadDir     string
	MaxUploadSize int64

	// Database
	DBDriver    string
	DatabaseURL string

	// Auth
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string

	// Remote storage
	StorageBackend      string
	RemoteStorageMarker string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// Email
	ResendAPIKey string
	EmailFrom    string
	NotifyEmail  string

	// Observability
	SentryDSN string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		Environment:  getEnv("APP_ENV", EnvDevelopment),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:3000"),

		ProductionOrigin:  getEnv("PUBLIC_ORIGIN_PRODUCTION", "https://api.galleryart.com"),
		DevelopmentOrigin: getEnv("PUBLIC_ORIGIN_DEVELOPMENT", "http://localhost:5000"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10<<20),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", "./data/gallery.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		StorageBackend:      strings.ToLower(getEnv("STORAGE_BACKEND", BackendLocal)),
		RemoteStorageMarker: getEnv("REMOTE_STORAGE_MARKER", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "gallery"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "gallery"),

		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@galleryart.com"),
		NotifyEmail:  getEnv("NOTIFY_EMAIL", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if cfg.RemoteStorageMarker == "" {
		cfg.RemoteStorageMarker = defaultMarker(cfg.StorageBackend)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}

	switch c.StorageBackend {
	case BackendLocal:
	case BackendCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.IsProduction() && c.StorageBackend == BackendLocal {
		slog.Warn("production is using local disk storage for uploads", "upload_dir", c.UploadDir)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// defaultMarker is the substring that identifies URLs served by the remote
// backend. Local deployments still treat Cloudinary URLs as remote so that
// pre-resolved links keep working.
func defaultMarker(backend string) string {
	switch backend {
	case BackendSupabase:
		return "supabase.co"
	case BackendS3:
		return "amazonaws.com"
	default:
		return "cloudinary"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", defaultValue)
		return defaultValue
	}
	return d
}
