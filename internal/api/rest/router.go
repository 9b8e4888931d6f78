package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fraud-review-system/internal/logger"
	"fraud-review-system/internal/redis"
)

// CORSMiddleware handles cross-origin requests from the analyst console.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupCommonEndpoints adds health, events and stats to a router. When a
// Redis cache is available, /stats also carries the per-status outcome
// counters the pipeline maintains.
func SetupCommonEndpoints(router *gin.Engine, cache redis.ClientInterface) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/api/v1/events", func(c *gin.Context) {
		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
				limit = parsed
			}
		}
		events := logger.GetEvents(limit)
		c.JSON(http.StatusOK, gin.H{"events": events})
	})

	router.GET("/api/v1/stats", func(c *gin.Context) {
		stats := logger.GetStats()
		if cache != nil {
			if counters, err := cache.GetStatusStats(); err == nil {
				stats["status_counts"] = counters
			}
		}
		c.JSON(http.StatusOK, stats)
	})
}

// SetupIngestionRouter wires the intake API.
func SetupIngestionRouter(handlers *Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())
	router.Use(gin.Logger(), gin.Recovery())

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	api := router.Group("/api/v1")
	{
		api.POST("/transactions", handlers.HandleTransaction)
		api.GET("/transactions", handlers.GetAllTransactions)
		api.GET("/transactions/:transaction_id", handlers.GetTransaction)
		api.DELETE("/transactions", handlers.ClearAllTransactions)
		api.GET("/transactions/generate", handlers.GenerateRandomTransaction)
	}

	SetupCommonEndpoints(router, handlers.cache)

	return router
}

// SetupReviewRouter wires the analyst console API.
func SetupReviewRouter(handlers *Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/transactions", handlers.GetAllTransactions)
		api.GET("/transactions/:transaction_id", handlers.GetTransaction)
		api.GET("/alerts", handlers.GetAlerts)
		api.POST("/actions", handlers.HandleAnalystAction)
		api.DELETE("/transactions", handlers.ClearAllTransactions)
	}

	SetupCommonEndpoints(router, handlers.cache)

	return router
}
