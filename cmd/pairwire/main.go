package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jtheo/pairwire/config"
	"github.com/jtheo/pairwire/internal/handlers"
	"github.com/jtheo/pairwire/internal/match"
	"github.com/jtheo/pairwire/internal/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := zap.Must(zap.NewProduction()).Sugar()
	if cfg.Environment == "development" {
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}
	defer logger.Sync()

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	promRegistry := prometheus.NewRegistry()
	hub := match.NewHub(logger, metrics.New(promRegistry), cfg.RequeueSurvivor)

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", handlers.Health)
	router.GET("/api/stats", handlers.Stats(hub))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// WebSocket signaling endpoint: participants join, get paired FIFO, and
	// have their offer/answer/candidate exchange relayed by the hub.
	router.GET("/ws", handlers.HandleSignaling(hub, logger, cfg.SendBufferSize))

	logger.Infof("starting pairwire signaling server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("failed to start server", "err", err)
	}
}
