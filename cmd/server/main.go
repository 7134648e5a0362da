package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/storefront/backend/internal/application/billing"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	partnerapp "github.com/storefront/backend/internal/application/partner"
	reportapp "github.com/storefront/backend/internal/application/report"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing. The provider is a no-op when telemetry is
	// disabled, so the deferred shutdown is always safe.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	// Initialize database
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run auto-migration", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderItemRepo := persistence.NewGormOrderItemRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)

	// Token infrastructure. When Redis is unreachable the in-memory
	// blacklist keeps auth working on a single node.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Object storage for design files and product images
	var objectStorage tradeapp.ObjectStorage
	if cfg.Storage.AccessKeyID != "" || cfg.Storage.Endpoint != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("S3 credentials not configured, using in-memory object storage")
		objectStorage = storage.NewMemoryObjectStorage()
	}

	// Refund gateway
	var refundGateway tradeapp.RefundGateway
	if cfg.Payment.Enabled {
		stripeGateway, err := payment.NewStripeGateway(&cfg.Payment, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
		}
		refundGateway = stripeGateway
	} else {
		refundGateway = payment.NewNoopGateway(log)
	}

	// Dashboard stats cache, Redis-backed with in-memory fallback
	statsCache, err := cache.NewStatsCacheFactory(cfg.Redis).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize stats cache", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, log)
	sellerService := partnerapp.NewSellerService(sellerRepo, userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, objectStorage, log)
	commissionService := billingapp.NewCommissionService(commissionRepo, categoryRepo, log)
	orderService := tradeapp.NewOrderService(orderItemRepo, orderRepo, productRepo, objectStorage, refundGateway, log)
	dashboardService := reportapp.NewDashboardService(userRepo, orderRepo, orderItemRepo, sellerRepo, categoryRepo, statsCache, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	sellerHandler := handler.NewSellerHandler(sellerService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(userService)
	commissionHandler := handler.NewCommissionHandler(commissionService)
	orderHandler := handler.NewOrderHandler(orderService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler()

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing - Record spans (if enabled)
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if tracerProvider.IsEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
		log.Info("Request tracing enabled",
			zap.String("endpoint", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Login and registration get a tighter per-IP limit on top of the
	// global one to slow down credential stuffing.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	authGuard := middleware.AuthRateLimit(authLimiter)

	adminOnly := middleware.RequireRole("admin")
	sellerOrAdmin := middleware.RequireRole("seller", "admin")

	// Identity domain (registration, login, profile)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authGuard, authHandler.Register)
	authRoutes.POST("/login", authGuard, authHandler.Login)
	authRoutes.POST("/refresh", authGuard, authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/change-password", authHandler.ChangePassword)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/me", authHandler.UpdateProfile)
	r.Register(authRoutes)

	// Catalog domain (categories, products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/categories", adminOnly, categoryHandler.Create)
	catalogRoutes.GET("/categories", categoryHandler.List)
	catalogRoutes.GET("/categories/active", categoryHandler.ListActive)
	catalogRoutes.GET("/categories/:id", categoryHandler.GetByID)
	catalogRoutes.PUT("/categories/:id", adminOnly, categoryHandler.Update)
	catalogRoutes.DELETE("/categories/:id", adminOnly, categoryHandler.Delete)

	catalogRoutes.POST("/products", sellerOrAdmin, productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.POST("/products/import", sellerOrAdmin, productHandler.ImportCSV)
	catalogRoutes.GET("/products/categories/:categoryId", productHandler.ListByCategory)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", sellerOrAdmin, productHandler.Update)
	catalogRoutes.DELETE("/products/:id", sellerOrAdmin, productHandler.Delete)
	catalogRoutes.POST("/products/:id/approve", adminOnly, productHandler.Approve)
	catalogRoutes.POST("/products/:id/reject", adminOnly, productHandler.Reject)
	catalogRoutes.POST("/products/:id/image", sellerOrAdmin, productHandler.UploadImage)
	catalogRoutes.GET("/sellers/:sellerId/products", productHandler.ListBySeller)
	r.Register(catalogRoutes)

	// Partner domain (sellers)
	sellerRoutes := router.NewDomainGroup("sellers", "/sellers")
	sellerRoutes.POST("", sellerHandler.Register)
	sellerRoutes.GET("", adminOnly, sellerHandler.List)
	sellerRoutes.GET("/me", sellerOrAdmin, sellerHandler.Me)
	sellerRoutes.GET("/pending", adminOnly, sellerHandler.ListPendingApproval)
	sellerRoutes.GET("/:id", sellerHandler.GetByID)
	sellerRoutes.PUT("/:id", sellerOrAdmin, sellerHandler.Update)
	sellerRoutes.PUT("/:id/payout", sellerOrAdmin, sellerHandler.SetPayoutDetails)
	sellerRoutes.POST("/:id/approve", adminOnly, sellerHandler.Approve)
	r.Register(sellerRoutes)

	// Customer administration
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.Use(adminOnly)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.POST("/:id/activate", customerHandler.Activate)
	customerRoutes.POST("/:id/deactivate", customerHandler.Deactivate)
	r.Register(customerRoutes)

	// Trade domain (order items, cancellations, design files)
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", adminOnly, orderHandler.ListOrders)
	orderRoutes.GET("/sellers/:sellerId", sellerOrAdmin, orderHandler.ListSellerOrders)
	orderRoutes.GET("/items/:id", orderHandler.GetOrderItem)
	orderRoutes.PUT("/items/:id/status", sellerOrAdmin, orderHandler.UpdateStatus)
	orderRoutes.POST("/items/:id/cancel", sellerOrAdmin, orderHandler.Cancel)
	orderRoutes.POST("/items/:id/cancel-request", orderHandler.RequestCancellation)
	orderRoutes.POST("/items/:id/cancel-request/resolve", sellerOrAdmin, orderHandler.ResolveCancellation)
	orderRoutes.POST("/items/:id/design", orderHandler.AttachDesign)
	orderRoutes.DELETE("/items/:id/design", orderHandler.DetachDesign)
	r.Register(orderRoutes)

	// Billing domain (commission rates)
	commissionRoutes := router.NewDomainGroup("commissions", "/commissions")
	commissionRoutes.Use(adminOnly)
	commissionRoutes.POST("", commissionHandler.Set)
	commissionRoutes.GET("", commissionHandler.List)
	commissionRoutes.GET("/categories/:categoryId", commissionHandler.GetEffectiveRate)
	commissionRoutes.GET("/categories/:categoryId/fee", commissionHandler.ComputeFee)
	commissionRoutes.DELETE("/:id", commissionHandler.Delete)
	r.Register(commissionRoutes)

	// Reporting domain (dashboard analytics)
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/stats", adminOnly, dashboardHandler.GetStats)
	dashboardRoutes.GET("/sellers/:sellerId/stats", sellerOrAdmin, dashboardHandler.GetSellerStats)
	dashboardRoutes.DELETE("/stats/cache", adminOnly, dashboardHandler.InvalidateStats)
	r.Register(dashboardRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
