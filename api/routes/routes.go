package routes

import (
	"github.com/cardclub/gacha-backend/internal/config"
	"github.com/cardclub/gacha-backend/internal/handlers"
	"github.com/cardclub/gacha-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies groups the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	GachaHandler      *handlers.GachaHandler
	CollectionHandler *handlers.CollectionHandler
	MediaHandler      *handlers.MediaHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Media proxy: token-authenticated by the signed query itself, so it
	// sits outside the JWT-protected group. Path matches the frontend's
	// expected /image?key=...&expires=...&token=... contract.
	router.GET("/image", deps.MediaHandler.GetImage)

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		gachaRoutes := protected.Group("/gacha")
		{
			gachaRoutes.POST("/draw", deps.GachaHandler.Draw)
			gachaRoutes.GET("/quota", deps.GachaHandler.QuotaStatus)
			gachaRoutes.GET("/versions", deps.GachaHandler.ListVersions)
			gachaRoutes.GET("/versions/:id", deps.GachaHandler.GetVersion)
		}

		collection := protected.Group("/collection")
		{
			collection.GET("", deps.CollectionHandler.List)
			collection.GET("/:id", deps.CollectionHandler.Get)
		}

		// Admin-only: the single path allowed to bypass the daily quota
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/gacha/draw", deps.GachaHandler.AdminDraw)
		}
	}

	return router
}
