package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/collab-editor/handlers"
	"github.com/gogotex/collab-editor/internal/config"
	"github.com/gogotex/collab-editor/internal/document/handler"
	"github.com/gogotex/collab-editor/internal/document/repository"
	"github.com/gogotex/collab-editor/internal/document/service"
	"github.com/gogotex/collab-editor/internal/gateway"
	"github.com/gogotex/collab-editor/internal/presence"
	"github.com/gogotex/collab-editor/pkg/logger"
	"github.com/gogotex/collab-editor/pkg/metrics"
	"github.com/gogotex/collab-editor/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	if logger.LevelString() != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Writer(logger.LevelInfo)
	gin.DefaultErrorWriter = logger.Writer(logger.LevelError)

	ctx := context.Background()

	// Redis is optional: it serves the redis snapshot backend and the shared rate limiter
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis: %s", addr)
			defer rdb.Close()
		}
	}

	store, backend, closeStore := repository.Open(ctx, cfg, rdb)
	defer closeStore()
	registry := service.NewRegistry(store,
		service.WithSaveDelay(cfg.Snapshot.SaveDelay),
		service.WithBackendName(backend),
	)
	_ = registry.Load(ctx)

	gw := gateway.New(registry, presence.NewTracker(), gateway.WithSendBuffer(cfg.Server.SendBuffer))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, registry, gw, rdb)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: cfg.Server.ReadTimeout}

	logger.Infof("config summary: snapshot=%s redis=%v rate_limit=%v save_delay=%s", backend, rdb != nil, cfg.RateLimit.Enabled, cfg.Snapshot.SaveDelay)
	go func() {
		logger.Infof("Server running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Infof("Saving documents before shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	gw.Shutdown()
	// best effort: a failed final flush is logged and shutdown continues
	if err := registry.Close(shutdownCtx); err != nil {
		logger.Errorf("final save failed: %v", err)
	}
}

// newRouter wires the HTTP API, the WebSocket endpoint and operational routes.
func newRouter(cfg *config.Config, registry *service.Registry, gw *gateway.Gateway, rdb *redis.Client) *gin.Engine {
	r := gin.New()

	// any origin may read and create documents
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		status, code := "ready", http.StatusOK
		if !registry.Loaded() {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"sessions": gw.SessionCount(),
			"uptime":   time.Since(startTime).String(),
		})
	})

	docs := r.Group("/")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			docs.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			docs.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handler.RegisterDocumentRoutes(docs, registry)
	handler.RegisterDocumentRoutes(docs.Group("/api"), registry)

	r.GET("/ws", gw.Handler())
	r.GET("/socket", gw.Handler())
	handlers.RegisterSwagger(r)
	return r
}
