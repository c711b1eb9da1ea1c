package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/homework-backend/internal/config"
	"github.com/hakwonlab/homework-backend/internal/handler"
	"github.com/hakwonlab/homework-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Class    *handler.ClassHandler
	Student  *handler.StudentHandler
	Homework *handler.HomeworkHandler
	Stats    *handler.StatsHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/classes", handlers.Class.ListClasses)
		api.POST("/classes", handlers.Class.CreateClass)
		api.PUT("/classes/:id", handlers.Class.UpdateClass)
		api.DELETE("/classes/:id", handlers.Class.DeleteClass)
		api.GET("/classes/:id/students", handlers.Student.ListByClass)
		api.GET("/classes/:id/homework/:date", handlers.Homework.ListByClassAndDate)

		api.POST("/students", handlers.Student.CreateStudent)
		api.PUT("/students/:id", handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", handlers.Student.DeleteStudent)
		api.GET("/students/:id/homework", handlers.Homework.ListRecords)
		api.GET("/students/:id/homework/:date", handlers.Homework.GetRecord)
		api.PUT("/students/:id/homework/:date", handlers.Homework.SaveRecord)

		api.GET("/stats/classes", handlers.Stats.ClassStats)
		api.GET("/stats/students", handlers.Stats.StudentStats)
	}

	return router
}
