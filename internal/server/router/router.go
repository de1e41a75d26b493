package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(billing *handlers.BillingHandler, prod *handlers.ProductionHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/clients/:id/debt", billing.PeriodDebt)
	r.POST("/clients/:id/recalculate", billing.Recalculate)
	r.POST("/clients/:id/payments", billing.RegisterPayment)
	r.POST("/clients/:id/skipped-dates", billing.ToggleSkippedDate)
	r.PUT("/clients/:id/schedule/:weekday", billing.SetWeekdaySchedule)

	r.PUT("/production/:date/:productId", prod.Record)
	r.GET("/production/:date", prod.DailyBreakage)

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
