package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"marketscan/internal/api/handlers"
	"marketscan/internal/config"
	"marketscan/internal/services"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, justTCG *services.JustTCGService, tcgdex *services.TCGdexService, manager *services.CollectionManager, history *services.HistoryTracker) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowCredentials = false
	router.Use(cors.New(corsCfg))

	router.Use(Metrics())
	if !cfg.DisableRateLimit {
		router.Use(RateLimit())
	}

	authHandler := handlers.NewAuthHandler(db)
	cardHandler := handlers.NewCardHandler(justTCG, tcgdex)
	collectionHandler := handlers.NewCollectionHandler(manager, history)

	// Browser-client surface
	router.POST("/login", authHandler.Login)
	router.POST("/signup", authHandler.Signup)
	router.GET("/get-set-id", cardHandler.GetSetID)
	router.POST("/search-card", cardHandler.SearchCards)
	router.GET("/pokemon-image", cardHandler.CardImage)

	// Server-side collection state, session-token authenticated
	api := router.Group("/api", RequireAuth(db))
	{
		collection := api.Group("/collection")
		{
			collection.GET("", collectionHandler.GetCollection)
			collection.POST("", collectionHandler.AddToCollection)
			collection.DELETE("/:variantId", collectionHandler.DeleteEntry)
			collection.GET("/history", collectionHandler.GetHistory)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
