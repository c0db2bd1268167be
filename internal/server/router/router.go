package router

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/torgprom/econdash/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Data   *handlers.DataHandler
	Files  *handlers.FilesHandler
	Market *handlers.MarketHandler
}

// Options carries router tuning knobs.
type Options struct {
	StaticDir      string
	RateLimitRPS   int
	RateLimitBurst int
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	if opts.RateLimitRPS > 0 {
		r.Use(rateLimitMiddleware(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst))
	}

	api := r.Group("/api")
	{
		api.GET("/sales", h.Data.Sales)
		api.GET("/inventory", h.Data.Inventory)
		api.GET("/profit", h.Data.Profit)
		api.GET("/trends", h.Data.Trends)
		api.GET("/stats", h.Data.Stats)
		api.GET("/categories", h.Data.Categories)
		api.GET("/regions", h.Data.Regions)
		api.POST("/regenerate", h.Data.Regenerate)

		api.GET("/files", h.Files.List)
		api.GET("/files/:name", h.Files.Content)
		api.GET("/files/:name/stats", h.Files.Stats)

		api.GET("/crypto/markets", h.Market.CryptoMarkets)
		api.GET("/crypto/global", h.Market.CryptoGlobal)
		api.GET("/crypto/:id/history", h.Market.CryptoHistory)

		api.GET("/worldbank/indicators", h.Market.Indicators)
		api.GET("/worldbank/health", h.Market.Health)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(opts.StaticDir, "index.html"))
		})
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func rateLimitMiddleware(rps rate.Limit, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
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
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
