package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"rentzy/internal/caching"
	"rentzy/internal/common"
	"rentzy/internal/config"
	"rentzy/internal/handlers"
	"rentzy/internal/jobs/background"
	"rentzy/internal/middleware"
	"rentzy/internal/models"
	"rentzy/internal/repositories"
	"rentzy/internal/services"
	"rentzy/pkg/database"
)

const version = "1.0.0"

// envelopeErrorHandler keeps framework-level errors (404s, body-limit
// rejections, panics surfaced by Recover) in the same response envelope as the
// handlers. Internal detail is only exposed outside production.
func envelopeErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else if !cfg.IsProduction() {
			message = err.Error()
		}

		if sendErr := common.SendError(c, status, message); sendErr != nil {
			log.Printf("Error response write failed: %v", sendErr)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		cfg.JWTRefreshSecret = cfg.JWTSecret
		log.Printf("WARNING: Using generated JWT secret; tokens will not survive a restart")
	}

	// Cache backend: Redis when configured, in-memory otherwise.
	var cacheSvc caching.CacheService
	if cfg.RedisAddr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		log.Printf("Using Redis cache at %s", cfg.RedisAddr)
	} else {
		cacheSvc = caching.NewMemoryCacheService()
		log.Printf("Using in-memory cache")
	}

	mediaSvc, err := services.NewMediaService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MediaBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}
	if err := mediaSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Fatalf("Failed to ensure media bucket: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)

	// Services
	emailSvc := services.NewSendGridEmailService(cfg.SendGridAPIKey, cfg.EmailFrom)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret)
	verificationSvc := services.NewVerificationService(cacheSvc, emailSvc)
	resetSvc := services.NewPasswordResetService(userRepo, emailSvc, cfg.FrontendURL)
	propertySvc := services.NewPropertyService(propertyRepo, mediaSvc)
	dashboardSvc := services.NewDashboardService(applicationRepo, propertySvc)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, verificationSvc, userRepo)
	accountHandlers := handlers.NewAccountHandlers(userRepo, resetSvc)
	tenantHandlers := handlers.NewTenantHandlers(userRepo, propertyRepo, applicationRepo, propertySvc, dashboardSvc)
	homeownerHandlers := handlers.NewHomeownerHandlers(userRepo, applicationRepo, propertySvc, dashboardSvc)
	healthHandlers := handlers.NewHealthHandlers()

	// Background jobs
	jobScheduler := background.NewJobScheduler(cacheSvc, userRepo)
	if err := jobScheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = envelopeErrorHandler(cfg)

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("10M"))
	e.Use(middleware.GeneralRateLimiter(cacheSvc))

	authenticate := middleware.Authenticate(authSvc)
	authLimiter := middleware.AuthRateLimiter(cacheSvc)

	// Health endpoints
	e.GET("/health", healthHandlers.Health)
	e.GET("/api/health", healthHandlers.Health)

	// Public auth endpoints
	e.POST("/send-verification-code", authHandlers.SendVerificationCode, authLimiter)
	e.POST("/register", authHandlers.Register, authLimiter)
	e.POST("/login", authHandlers.Login, authLimiter)
	e.POST("/refresh-token", authHandlers.Refresh, authLimiter)
	e.POST("/logout", authHandlers.Logout, authenticate)

	// Account routes
	auth := e.Group("/api/auth")
	auth.GET("/verify-token", accountHandlers.VerifyToken, authenticate)
	auth.GET("/profile", accountHandlers.GetProfile, authenticate)
	auth.PUT("/profile", accountHandlers.UpdateProfile, authenticate)
	auth.POST("/forgot-password", accountHandlers.ForgotPassword, authLimiter)
	auth.POST("/reset-password/:token", accountHandlers.ResetPassword, authLimiter)
	auth.GET("/verify-reset-token/:token", accountHandlers.VerifyResetToken)

	// Tenant routes
	tenant := e.Group("/api/tenant", authenticate, middleware.RequireRoles(models.RoleTenant))
	tenant.GET("/dashboard", tenantHandlers.Dashboard)
	tenant.GET("/profile", tenantHandlers.Profile)
	tenant.GET("/applications", tenantHandlers.Applications)
	tenant.POST("/applications", tenantHandlers.ApplyProperty)
	tenant.GET("/saved-properties", tenantHandlers.SavedProperties)
	tenant.POST("/saved-properties/:propertyId", tenantHandlers.SaveProperty)
	tenant.DELETE("/saved-properties/:propertyId", tenantHandlers.UnsaveProperty)

	// Homeowner routes
	homeowner := e.Group("/api/homeowner", authenticate, middleware.RequireRoles(models.RoleHomeowner))
	homeowner.GET("/dashboard", homeownerHandlers.Dashboard)
	homeowner.GET("/profile", homeownerHandlers.Profile)
	homeowner.GET("/properties", homeownerHandlers.Properties)
	homeowner.POST("/properties", homeownerHandlers.CreateProperty)
	homeowner.PUT("/properties/:id", homeownerHandlers.UpdateProperty)
	homeowner.DELETE("/properties/:id", homeownerHandlers.DeleteProperty)
	homeowner.POST("/properties/:id/images", homeownerHandlers.UploadPropertyImage)
	homeowner.GET("/applications", homeownerHandlers.Applications)
	homeowner.PUT("/applications/:id", homeownerHandlers.DecideApplication)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Rentzy server v%s starting on port %s", version, cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	if err := jobScheduler.Stop(); err != nil {
		log.Printf("Job scheduler shutdown error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
