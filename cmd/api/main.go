package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/handlers"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/middleware"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	sink := services.NewFeatureSink(db)
	if err := sink.Migrate(); err != nil {
		log.Fatalf("Failed to migrate feature tables: %v", err)
	}

	// the API still serves from PostgreSQL without Redis, just uncached
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, caching and run events disabled: %v", err)
	}
	defer cache.Close()

	router := newRouter(cfg, db, cache, sink)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newRouter(cfg *config.Config, db *gorm.DB, cache *services.CacheService, runs handlers.RunStore) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "F1 feature API is running",
			"cache":   cache.Available(),
		})
	})

	features := handlers.NewFeaturesHandler(db, cache, runs)
	router.GET("/features", features.GetFeatures)
	router.GET("/manifest", features.GetManifest)
	router.GET("/ws/runs", handlers.RunEvents(cache))

	return router
}
