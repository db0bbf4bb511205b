package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Endawoke47/Neo-sub000/config"
	"github.com/Endawoke47/Neo-sub000/engine"
	"github.com/Endawoke47/Neo-sub000/handler"
	"github.com/Endawoke47/Neo-sub000/middleware"
	"github.com/Endawoke47/Neo-sub000/pkg/logger"
	"github.com/Endawoke47/Neo-sub000/rules"
	"github.com/Endawoke47/Neo-sub000/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Load the rule tables once; they are shared read-only across requests
	ruleSet, err := rules.Load()
	if err != nil {
		slog.Error("failed to load rule tables", "error", err)
		os.Exit(1)
	}
	slog.Info("rule tables loaded",
		"version", ruleSet.Version,
		"risk_rules", len(ruleSet.RiskRules),
		"standards", len(ruleSet.Standards),
		"red_flags", len(ruleSet.RedFlags),
	)

	// Optional remote inference assist for deep extraction passes
	inference := service.NewInferenceService(&cfg.Inference)
	if inference.Enabled() {
		slog.Info("inference assist enabled", "provider", cfg.Inference.Provider, "model", cfg.Inference.Model)
	}

	pipeline := engine.NewPipeline(ruleSet, engine.Options{
		Workers:      cfg.Engine.Workers,
		StageTimeout: time.Duration(cfg.Engine.StageTimeoutSeconds) * time.Second,
		Assist:       inference,
	})

	// Optional archival of analyzed documents to object storage
	var archive *service.ArchiveService
	if cfg.Archive.Endpoint != "" {
		archive, err = service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := archive.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
	}

	// Initialize analysis store and result cache
	service.InitAnalysisStore(&cfg.Store)
	cache := service.NewResultCache(time.Duration(cfg.Engine.CacheTTLMinutes)*time.Minute, ruleSet.Version)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	analysisHandler := handler.NewAnalysisHandler(pipeline, cache, archive)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                // Request ID for tracing
	router.Use(middleware.Recovery())                 // Panic recovery
	router.Use(middleware.RequestLogger())            // Access logging
	router.Use(corsMiddleware())                      // CORS
	router.Use(middleware.RateLimit(60, time.Minute)) // Rate limiting: 60 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"ruleset":   ruleSet.Version,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/analyses", analysisHandler.Analyze)
		protected.GET("/analyses", analysisHandler.List)
		protected.GET("/analyses/:id", analysisHandler.Get)
		protected.GET("/analyses/:id/summary", analysisHandler.GetSummary)
		protected.DELETE("/analyses/:id", analysisHandler.Delete)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
