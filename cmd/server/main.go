package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/bulk"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/config"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/handlers"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/middleware"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
	"github.com/disbudpar-sulsel/tourism-data-backend/pkg/token"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Disbudpar Tourism Data Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Initializing services...")
	client := supabase.NewClient(supabase.Config{
		BaseURL:        cfg.Supabase.URL,
		APIKey:         cfg.Supabase.APIKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		StorageBucket:  cfg.Supabase.StorageBucket,
	})
	tokenService := token.NewService(cfg.Session.Secret, cfg.Session.Expiry)
	directoryService := services.NewDirectoryService(client, services.DefaultDirectoryRetry, logger)
	sessionService := services.NewSessionService(client, directoryService, tokenService, logger)
	submissionService := services.NewSubmissionService(client, logger)
	progressService := services.NewProgressService(client, directoryService, logger)
	registry := bulk.NewRegistry()

	authHandler := handlers.NewAuthHandler(sessionService, logger)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, logger)
	bulkHandler := handlers.NewBulkHandler(registry, submissionService, logger)
	progressHandler := handlers.NewProgressHandler(progressService, directoryService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler())

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/restore", authHandler.Restore)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", middleware.AuthMiddleware(tokenService), authHandler.Session)
		}

		protected := v1.Group("", middleware.AuthMiddleware(tokenService))
		{
			protected.GET("/regions", progressHandler.Regions)

			submissions := protected.Group("/submissions")
			{
				submissions.POST("/destinations", submissionHandler.SubmitDestination)
				submissions.POST("/businesses", submissionHandler.SubmitBusiness)
			}

			bulkRoutes := protected.Group("/bulk")
			{
				bulkRoutes.POST("/validate", bulkHandler.Validate)
				bulkRoutes.POST("/submit", bulkHandler.Submit)
				bulkRoutes.POST("/export", bulkHandler.Export)
				bulkRoutes.GET("/templates/:schema", bulkHandler.Template)
			}

			admin := protected.Group("/admin", middleware.RequireAdmin(cfg.Admin.Email))
			{
				admin.GET("/progress", progressHandler.Report)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if session, exists := middleware.GetSessionContext(c); exists {
			fields["email"] = session.Email
			fields["region"] = session.Region
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint. Persistence is a
// remote managed backend, so there is no local dependency to probe.
func healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
