package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Multipart form lớn hơn mức này được spool ra file tạm
	router.MaxMultipartMemory = 8 << 20

	router.GET("/health", healthCheckHandler(c))

	setupPostRoutes(router, c)
	setupUploadRoutes(router, c)

	return router
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(r *gin.Engine, c *container.Container) {
	posts := r.Group("/posts")
	{
		posts.GET("", c.PostHandler.List)
		posts.GET("/:id", c.PostHandler.Get)
		posts.POST("", c.PostHandler.Create)
		posts.PUT("/:id", c.PostHandler.Update)
		posts.PATCH("/:id", c.PostHandler.Update)
		posts.DELETE("/:id", c.PostHandler.Delete)
	}
}

// ========================================
// UPLOAD ROUTES
// ========================================
func setupUploadRoutes(r *gin.Engine, c *container.Container) {
	prefix := strings.Trim(c.Config.Storage.PublicPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	r.GET("/"+prefix+"/*filepath", c.UploadsHandler.Serve)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		components := gin.H{}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			components["mongo"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			components["mongo"] = gin.H{"status": "up"}
		}

		// Redis chỉ phục vụ cache và queue nên lỗi Redis không làm API unhealthy
		if err := c.Cache.Ping(checkCtx); err != nil {
			components["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			components["redis"] = gin.H{"status": "up"}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		ctx.JSON(status, gin.H{
			"status":     overall,
			"service":    c.Config.App.Name,
			"version":    c.Config.App.Version,
			"components": components,
		})
	}
}
