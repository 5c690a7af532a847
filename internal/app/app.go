package app

import (
	"context"
	"fmt"
	"log/slog"

	"art-gallery-backend/internal/config"
	"art-gallery-backend/internal/database"
	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/services"
	"art-gallery-backend/internal/storage"

	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg      *config.Config
	DB       *sqlx.DB
	Resolver *imageref.Resolver
	// StorageBackend names where new uploads land.
	StorageBackend string

	AuthService     *services.AuthService
	PaintingService *services.PaintingService
	CategoryService *services.CategoryService
	BlogService     *services.BlogService
	OrderService    *services.OrderService
	ContactService  *services.ContactService
	GalleryService  *services.GalleryService
}

// Options overrides collaborators that are normally built from config.
// Tests use it to swap in a fake remote store or notifier.
type Options struct {
	Remote   storage.RemoteStore
	Notifier services.Notifier
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(db.DB, cfg.DBDriver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := build(ctx, cfg, db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, db *sqlx.DB, opts Options) (*App, error) {
	// Repositories
	paintingRepository := repository.NewPaintingRepository(db)
	categoryRepository := repository.NewCategoryRepository(db)
	blogRepository := repository.NewBlogRepository(db)
	orderRepository := repository.NewOrderRepository(db)
	contactRepository := repository.NewContactRepository(db)
	userRepository := repository.NewUserRepository(db)
	imageRepository := repository.NewImageRepository(db)

	// Storage
	local, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	remote := opts.Remote
	if remote == nil {
		remote, err = newRemoteStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageBackend, err)
		}
	}
	uploader := storage.NewUploader(local, remote)

	resolver := imageref.NewResolver(imageref.Options{
		Production:        cfg.IsProduction(),
		ProductionOrigin:  cfg.ProductionOrigin,
		DevelopmentOrigin: cfg.DevelopmentOrigin,
		RemoteMarker:      cfg.RemoteStorageMarker,
	})

	// Services
	intake := services.NewImageIntake(uploader, resolver, cfg.MaxUploadSize)
	janitor := services.NewImageJanitor(resolver, local, imageRepository)

	notifier := opts.Notifier
	if notifier == nil {
		notifier = services.NewEmailNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.NotifyEmail, cfg.IsDevelopment())
	}

	authService := services.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
		}
	}

	slog.Info("app initialized",
		"env", cfg.Environment,
		"db_driver", cfg.DBDriver,
		"storage", uploader.Backend(),
		"origin", resolver.Origin(),
	)

	return &App{
		Cfg:             cfg,
		DB:              db,
		Resolver:        resolver,
		StorageBackend:  uploader.Backend(),
		AuthService:     authService,
		PaintingService: services.NewPaintingService(paintingRepository, categoryRepository, intake, janitor),
		CategoryService: services.NewCategoryService(categoryRepository, paintingRepository, intake, janitor),
		BlogService:     services.NewBlogService(blogRepository, intake, janitor, services.NewMarkdownRenderer()),
		OrderService:    services.NewOrderService(orderRepository, paintingRepository, notifier),
		ContactService:  services.NewContactService(contactRepository, notifier),
		GalleryService:  services.NewGalleryService(local, imageRepository, intake),
	}, nil
}

// newRemoteStore returns nil for the local backend.
func newRemoteStore(ctx context.Context, cfg *config.Config) (storage.RemoteStore, error) {
	switch cfg.StorageBackend {
	case config.BackendCloudinary:
		return storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case config.BackendSupabase:
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	case config.BackendS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, nil
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return database.Close(a.DB)
	}
	return nil
}
