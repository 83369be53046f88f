package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"koperasimart/internal/caching"
	"koperasimart/internal/config"
	"koperasimart/internal/handlers"
	"koperasimart/internal/jobs"
	"koperasimart/internal/jobs/background"
	"koperasimart/internal/middleware"
	"koperasimart/internal/repositories"
	"koperasimart/internal/services"
	"koperasimart/internal/validation"
	"koperasimart/pkg/database"
)

const version = "1.0.0"

func main() {
	// Application configuration (TOML file is optional)
	cfg := config.DefaultAppConfig()
	if configPath := os.Getenv("APP_CONFIG"); configPath != "" {
		loaded, err := config.LoadAppConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Initialize MinIO service
	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), cfg.Export.Bucket); err != nil {
		log.Fatalf("Failed to ensure export bucket %s: %v", cfg.Export.Bucket, err)
	}

	// Create repositories
	barangRepo := repositories.NewBarangRepo(pool)
	kategoriRepo := repositories.NewKategoriRepo(pool)
	satuanRepo := repositories.NewSatuanRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create validation engine
	validator := validation.NewEngine(validation.EngineConfig{
		MinProfitMargin: cfg.Validation.MinProfitMargin,
	})

	// Create services
	auditSvc := services.NewAuditLogsService(auditLogsRepo)
	barangSvc := services.NewBarangService(barangRepo, kategoriRepo, satuanRepo, validator, cacheSvc, auditSvc)
	kategoriSvc := services.NewKategoriService(kategoriRepo, validator, cacheSvc, auditSvc)
	satuanSvc := services.NewSatuanService(satuanRepo, validator, cacheSvc, auditSvc)
	importExportSvc := services.NewImportExportService(barangSvc, kategoriRepo, satuanRepo, validator, minioSvc, auditSvc, cfg.Export, cfg.Import)

	// Create handlers
	barangHandlers := handlers.NewBarangHandlers(barangSvc)
	kategoriHandlers := handlers.NewKategoriHandlers(kategoriSvc)
	satuanHandlers := handlers.NewSatuanHandlers(satuanSvc)
	importExportHandlers := handlers.NewImportExportHandlers(importExportSvc, cfg.Import)
	auditLogsHandlers := handlers.NewAuditLogsHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, cfg.Export.Bucket)

	// Background jobs
	alertSvc := jobs.NewStockAlertService(barangRepo, auditSvc)
	scheduler := background.NewJobScheduler(alertSvc, cacheSvc, barangRepo, cfg.Jobs)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.ClientIP())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	auditMiddleware := middleware.NewAuditMiddleware(auditSvc)
	protected.Use(auditMiddleware.AuditRequest())

	// Barang routes
	protected.GET("/barang", barangHandlers.QueryBarang)
	protected.POST("/barang", barangHandlers.CreateBarang)
	protected.GET("/barang/:id", barangHandlers.GetBarangByID)
	protected.PUT("/barang/:id", barangHandlers.UpdateBarang)
	protected.DELETE("/barang/:id", barangHandlers.DeleteBarang)
	protected.POST("/barang/query", barangHandlers.QueryBarangPost)
	protected.POST("/barang/validate", barangHandlers.ValidateBarang)
	protected.GET("/barang/filter-options/:name", barangHandlers.GetFilterOptions)
	protected.POST("/barang/import", importExportHandlers.ImportBarang)
	protected.GET("/barang/export", importExportHandlers.ExportBarang)

	// Kategori routes
	protected.GET("/kategori", kategoriHandlers.ListKategori)
	protected.POST("/kategori", kategoriHandlers.CreateKategori)
	protected.GET("/kategori/:id", kategoriHandlers.GetKategoriByID)
	protected.PUT("/kategori/:id", kategoriHandlers.UpdateKategori)
	protected.DELETE("/kategori/:id", kategoriHandlers.DeleteKategori)

	// Satuan routes
	protected.GET("/satuan", satuanHandlers.ListSatuan)
	protected.POST("/satuan", satuanHandlers.CreateSatuan)
	protected.GET("/satuan/:id", satuanHandlers.GetSatuanByID)
	protected.PUT("/satuan/:id", satuanHandlers.UpdateSatuan)
	protected.DELETE("/satuan/:id", satuanHandlers.DeleteSatuan)

	// Audit log routes
	protected.GET("/audit-logs", auditLogsHandlers.ListAuditLogs)
	protected.GET("/audit-logs/actions", auditLogsHandlers.GetActions)
	protected.GET("/audit-logs/:id", auditLogsHandlers.GetAuditLog)
	protected.GET("/audit-logs/history/:table/:record_id", auditLogsHandlers.GetEntityHistory)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Koperasimart server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	if err := scheduler.Stop(); err != nil {
		log.Printf("Failed to stop job scheduler: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
}
