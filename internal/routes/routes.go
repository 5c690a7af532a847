package routes

import (
	"net/http"

	"art-gallery-backend/internal/app"
	"art-gallery-backend/internal/handlers"
	"art-gallery-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(a *app.App) http.Handler {
	cfg := a.Cfg
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(cfg.ClientOrigin))
	router.MaxMultipartMemory = cfg.MaxUploadSize

	authHandler := handlers.NewAuthHandler(a.AuthService)
	paintingsHandler := handlers.NewPaintingsHandler(a.PaintingService, a.CategoryService, a.Resolver)
	categoriesHandler := handlers.NewCategoriesHandler(a.CategoryService, a.Resolver)
	blogHandler := handlers.NewBlogHandler(a.BlogService, a.Resolver)
	ordersHandler := handlers.NewOrdersHandler(a.OrderService)
	contactHandler := handlers.NewContactHandler(a.ContactService)
	galleryHandler := handlers.NewGalleryHandler(a.GalleryService)
	healthHandler := handlers.NewHealthHandler(a.DB, a.StorageBackend)

	// Health check (no auth)
	router.GET("/health", healthHandler.Health)

	// Locally stored uploads
	router.Static("/uploads", cfg.UploadDir)

	// Public API
	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	api.GET("/paintings", paintingsHandler.ListPaintings)
	api.GET("/paintings/:id", paintingsHandler.GetPainting)

	api.GET("/categories", categoriesHandler.ListCategories)
	api.GET("/categories/:id", categoriesHandler.GetCategory)

	api.GET("/blog", blogHandler.ListPublished)
	api.GET("/blog/:slug", blogHandler.GetBySlug)

	api.POST("/orders", ordersHandler.CreateOrder)
	api.POST("/contact", contactHandler.Submit)

	// Back office
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))

	admin.GET("/me", authHandler.Me)

	admin.POST("/paintings", paintingsHandler.CreatePainting)
	admin.PUT("/paintings/:id", paintingsHandler.UpdatePainting)
	admin.DELETE("/paintings/:id", paintingsHandler.DeletePainting)

	admin.POST("/categories", categoriesHandler.CreateCategory)
	admin.PUT("/categories/:id", categoriesHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoriesHandler.DeleteCategory)

	admin.GET("/blog", blogHandler.ListAll)
	admin.GET("/blog/:id", blogHandler.GetPost)
	admin.POST("/blog", blogHandler.CreatePost)
	admin.PUT("/blog/:id", blogHandler.UpdatePost)
	admin.DELETE("/blog/:id", blogHandler.DeletePost)

	admin.GET("/orders", ordersHandler.ListOrders)
	admin.GET("/orders/:id", ordersHandler.GetOrder)
	admin.PATCH("/orders/:id/status", ordersHandler.UpdateStatus)
	admin.DELETE("/orders/:id", ordersHandler.DeleteOrder)

	admin.GET("/contact", contactHandler.ListMessages)
	admin.PATCH("/contact/:id/read", contactHandler.MarkRead)
	admin.DELETE("/contact/:id", contactHandler.DeleteMessage)

	admin.GET("/gallery", galleryHandler.ListMedia)
	admin.POST("/gallery/upload", galleryHandler.UploadMedia)
	admin.DELETE("/gallery", galleryHandler.DeleteMedia)

	return router
}
