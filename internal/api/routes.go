package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retroshelf/retroshelf/internal/api/handlers"
	"github.com/retroshelf/retroshelf/internal/api/middleware"
	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/config"
	"github.com/retroshelf/retroshelf/internal/services"
)

// Auth endpoints share one budget of 100 requests per 15 minutes per IP.
const (
	authRateBurst  = 100
	authRateWindow = 15 * 60
)

func SetupRouter(cfg *config.Config, issuer *auth.TokenIssuer, changeService *services.ChangeService, valuationService *services.ValuationService, imageStorage *services.ImageStorageService) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true // refresh token travels in a cookie
	router.Use(cors.New(corsConfig))

	refreshMaxAge := int(cfg.Auth.RefreshTTL.Seconds())
	authHandler := handlers.NewAuthHandler(issuer, cfg.Auth.RefreshCookieName, refreshMaxAge, !cfg.Debug)
	userHandler := handlers.NewUserHandler(imageStorage)
	gameHandler := handlers.NewGameHandler(imageStorage)
	consoleHandler := handlers.NewConsoleHandler(imageStorage)
	manufacturerHandler := handlers.NewManufacturerHandler(imageStorage)
	collectionHandler := handlers.NewCollectionHandler(valuationService)
	wishlistHandler := handlers.NewWishlistHandler()
	changeHandler := handlers.NewChangeHandler(changeService)
	adminHandler := handlers.NewAdminHandler(changeService)
	lookupHandler := handlers.NewLookupHandler()

	requireAuth := middleware.RequireAuth(issuer)
	requireAdmin := middleware.RequireAdmin()
	authLimiter := middleware.NewRateLimiter(authRateBurst, authRateWindow)

	// Uploaded images (covers, avatars, console photos)
	router.Static("/api/uploads", imageStorage.GetStorageDir())

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth", authLimiter.Middleware())
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.POST("/me/image", userHandler.UploadAvatar)
			users.DELETE("/me", middleware.RequireFresh(), userHandler.DeleteMe)
		}

		games := api.Group("/games")
		{
			games.GET("/search", gameHandler.SearchGames)
			games.GET("/:id", gameHandler.GetGame)
			games.GET("/:id/prices", gameHandler.GetPriceHistory)
			games.POST("", requireAuth, requireAdmin, gameHandler.CreateGame)
			games.PUT("/:id", requireAuth, requireAdmin, gameHandler.UpdateGame)
			games.DELETE("/:id", requireAuth, requireAdmin, gameHandler.DeleteGame)
			games.POST("/:id/cover", requireAuth, requireAdmin, gameHandler.UploadCover)
		}

		consoles := api.Group("/consoles")
		{
			consoles.GET("", consoleHandler.ListConsoles)
			consoles.GET("/:id", consoleHandler.GetConsole)
			consoles.GET("/:id/games", gameHandler.ListByConsole)
			consoles.POST("", requireAuth, requireAdmin, consoleHandler.CreateConsole)
			consoles.PUT("/:id", requireAuth, requireAdmin, consoleHandler.UpdateConsole)
			consoles.DELETE("/:id", requireAuth, requireAdmin, consoleHandler.DeleteConsole)
			consoles.POST("/:id/image", requireAuth, requireAdmin, consoleHandler.UploadConsoleImage)
		}

		manufacturers := api.Group("/manufacturers")
		{
			manufacturers.GET("", manufacturerHandler.ListManufacturers)
			manufacturers.POST("", requireAuth, requireAdmin, manufacturerHandler.CreateManufacturer)
			manufacturers.DELETE("/:id", requireAuth, requireAdmin, manufacturerHandler.DeleteManufacturer)
			manufacturers.POST("/:id/image", requireAuth, requireAdmin, manufacturerHandler.UploadManufacturerImage)
		}

		api.GET("/genres", lookupHandler.ListGenres)
		api.GET("/categories", lookupHandler.ListCategories)
		api.GET("/editions", lookupHandler.ListEditions)

		collection := api.Group("/collection", requireAuth)
		{
			collection.GET("", collectionHandler.GetCollection)
			collection.POST("", collectionHandler.AddToCollection)
			collection.PUT("/:id", collectionHandler.UpdateCollectionEntry)
			collection.DELETE("/:id", collectionHandler.DeleteCollectionEntry)
			collection.GET("/metrics", collectionHandler.GetMetrics)
		}

		wishlist := api.Group("/wishlist", requireAuth)
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("", wishlistHandler.AddToWishlist)
			wishlist.DELETE("/:id", wishlistHandler.RemoveFromWishlist)
		}

		items := api.Group("/items", requireAuth)
		{
			items.POST("/:id/changes", changeHandler.ProposeChange)
		}

		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/changes", adminHandler.ListPendingChanges)
			admin.GET("/changes/:id", adminHandler.GetChange)
			admin.POST("/changes/:id/approve", adminHandler.ApproveChange)
			admin.POST("/changes/:id/reject", adminHandler.RejectChange)
			admin.DELETE("/changes/:id", adminHandler.DeleteChange)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
