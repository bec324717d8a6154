package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(laborers *handlers.LaborerHandler, reports *handlers.ReportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/laborers", laborers.List)
		api.POST("/laborers", laborers.Create)
		api.PUT("/laborers/:id", laborers.Update)
		api.DELETE("/laborers/:id", laborers.Delete)
		api.PUT("/laborers/:id/hours", laborers.SetHours)

		api.GET("/reports/monthly", reports.Monthly)
		api.GET("/reports/monthly.csv", reports.MonthlyCSV)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
