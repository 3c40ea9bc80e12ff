// Package main provides the main entry point for the Link360 pool pledge intake service
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/link360/pool-api/app/handlers"
	"github.com/link360/pool-api/app/middleware"
	"github.com/link360/pool-api/app/router"
	"github.com/link360/pool-api/app/services"
	businessflow "github.com/link360/pool-api/business_flow"
	"github.com/link360/pool-api/config"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Link360 pool API...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotated file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.Output == "" {
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(fileWriter)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Map driver errors onto gorm sentinels so the repositories can
		// detect unique violations portably.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateDatabase keeps the schema in step with the models
func migrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Pool{},
		&models.Pledge{},
		&models.AdminSettings{},
		&models.Admin{},
		&models.AuditLog{},
	)
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeEmailProvider picks the SMTP relay when one is configured
func initializeEmailProvider(cfg config.EmailConfig) services.EmailProvider {
	if cfg.Host == "" {
		log.Println("No SMTP host configured, using mock email provider")
		return services.NewMockEmailProvider()
	}
	return services.NewSMTPEmailProvider(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.FromEmail)
}

// ensureBootstrapAdmin seeds the first operator account from the environment
// so a fresh deployment is usable without manual SQL
func ensureBootstrapAdmin(db *gorm.DB, bcryptCost int) error {
	username := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	adminRepo := repository.NewAdminRepository(db)
	existing, err := adminRepo.ByUsername(context.Background(), username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
	}
	if err := adminRepo.Save(context.Background(), admin); err != nil {
		return err
	}

	log.Printf("Bootstrap admin %q created", username)
	return nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateDatabase(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	if err := ensureBootstrapAdmin(db, cfg.Security.BcryptCost); err != nil {
		return nil, err
	}

	// Initialize repositories
	poolRepo := repository.NewPoolRepository(db)
	pledgeRepo := repository.NewPledgeRepository(db)
	settingsRepo := repository.NewAdminSettingsRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	emailProvider := initializeEmailProvider(cfg.Email)
	notifier := services.NewPledgeNotifier(emailProvider, cfg.Admin.Emails)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Pricing source backed by the settings row with a redis cache in front
	pricing := businessflow.NewCachedPricingSource(settingsRepo, rc, &cfg.Cache,
		businessflow.FallbackPricingConfig(cfg.Intake))

	// Per-IP intake limiters with periodic pruning of idle keys
	pledgeLimiter := businessflow.NewSlidingWindowLimiter(cfg.Intake.MaxPledgesPerIP, cfg.Intake.RateLimitWindow)
	quoteLimiter := businessflow.NewSlidingWindowLimiter(cfg.Intake.MaxQuotesPerIP, cfg.Intake.RateLimitWindow)

	limiterStop := make(chan struct{})
	pledgeLimiter.StartCleanup(cfg.Intake.LimiterCleanup, limiterStop)
	quoteLimiter.StartCleanup(cfg.Intake.LimiterCleanup, limiterStop)
	stopFuncs = append(stopFuncs, func() { close(limiterStop) })

	// Initialize flows
	pledgeFlow := businessflow.NewPledgeFlow(
		poolRepo,
		pledgeRepo,
		auditRepo,
		pricing,
		notifier,
		pledgeLimiter,
		quoteLimiter,
	)

	poolFlow := businessflow.NewPoolFlow(poolRepo, pledgeRepo)

	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, auditRepo, tokenService)

	adminPledgeFlow := businessflow.NewAdminPledgeFlow(poolRepo, pledgeRepo, auditRepo, db)

	adminSettingsFlow := businessflow.NewAdminSettingsFlow(settingsRepo, auditRepo, pricing, db)

	// Initialize handlers
	poolHandler := handlers.NewPoolHandler(poolFlow)
	pledgeHandler := handlers.NewPledgeHandler(pledgeFlow)
	adminHandler := handlers.NewAdminHandler(adminAuthFlow, adminPledgeFlow, adminSettingsFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		poolHandler,
		pledgeHandler,
		adminHandler,
		authMiddleware,
	)

	// Create application struct from FiberRouter
	fiberRouter, ok := appRouter.(*router.FiberRouter)
	if !ok {
		return nil, errors.New("unexpected router implementation")
	}
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
