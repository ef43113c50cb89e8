package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/laundry/backend/internal/application/analytics"
	assetapp "github.com/laundry/backend/internal/application/asset"
	billingapp "github.com/laundry/backend/internal/application/billing"
	branchapp "github.com/laundry/backend/internal/application/branch"
	catalogapp "github.com/laundry/backend/internal/application/catalog"
	customerapp "github.com/laundry/backend/internal/application/customer"
	identityapp "github.com/laundry/backend/internal/application/identity"
	orderapp "github.com/laundry/backend/internal/application/order"
	paymentapp "github.com/laundry/backend/internal/application/payment"
	subscriptionapp "github.com/laundry/backend/internal/application/subscription"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/auth"
	"github.com/laundry/backend/internal/infrastructure/cache"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/laundry/backend/internal/infrastructure/event"
	"github.com/laundry/backend/internal/infrastructure/logger"
	"github.com/laundry/backend/internal/infrastructure/migration"
	"github.com/laundry/backend/internal/infrastructure/persistence"
	"github.com/laundry/backend/internal/infrastructure/printing"
	"github.com/laundry/backend/internal/infrastructure/scheduler"
	"github.com/laundry/backend/internal/infrastructure/storage"
	"github.com/laundry/backend/internal/infrastructure/telemetry"
	"github.com/laundry/backend/internal/interfaces/http/handler"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
	"github.com/laundry/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/laundry/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Laundry Service API
//	@version		1.0
//	@description	Pickup-and-delivery laundry platform: customers, branches, orders, subscriptions, invoices and payments.

//	@contact.name	API Support
//	@contact.url	https://github.com/laundry/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes first so the OTLP log bridge sees startup messages
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tel.Logs.Bridge(log, zapcore.InfoLevel)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Laundry API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	var gormOpts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.Driver, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	schemaState := &middleware.SchemaState{}
	prepareSchema(db, cfg.Database, schemaState, log)

	// Redis is optional; without it stores fall back to process memory
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var tokenBlacklist auth.TokenBlacklist
	var stores cache.Stores
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		stores = cache.NewStores(redisClient, log)
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		stores = cache.NewStores(nil, log)
	}

	// Event bus with its subscribers
	eventBus := event.NewInMemoryEventBus(log.Named("events"))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	if cfg.Messaging.Enabled {
		forwarder, err := event.NewRabbitMQForwarder(cfg.Messaging, log.Named("rabbitmq"))
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq", zap.Error(err))
		}
		defer func() { _ = forwarder.Close() }()
		eventBus.Subscribe(forwarder)
	}
	if tel.Meter.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(tel.Meter.Meter("laundry.business"))
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		eventBus.Subscribe(businessMetrics)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	areaRepo := persistence.NewGormServiceAreaRepository(db.DB)
	brandingRepo := persistence.NewGormBrandingRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	itemRepo := persistence.NewGormServiceItemRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subRepo := persistence.NewGormSubscriptionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	revenueRepo := persistence.NewGormRevenueRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Storage and PDF rendering
	assetStorage, err := storage.New(ctx, cfg.Storage, log.Named("storage"))
	if err != nil {
		log.Fatal("Failed to initialize asset storage", zap.Error(err))
	}
	renderer := newRenderer(cfg.Printing, log)
	defer func() { _ = renderer.Close() }()
	invoiceTemplate, err := printing.NewInvoiceTemplate()
	if err != nil {
		log.Fatal("Failed to parse invoice template", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	authService := identityapp.NewAuthService(userRepo, customerRepo, txScope, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, tokenBlacklist, cfg.JWT.RefreshTokenExpiration, log)
	branchService := branchapp.NewBranchService(branchRepo, areaRepo, log)
	areaService := branchapp.NewServiceAreaService(areaRepo, branchRepo, log)
	assetService := assetapp.NewAssetService(assetRepo, assetStorage, log)
	assetService.SetConfig(assetapp.AssetServiceConfig{
		MaxUploadSize:     cfg.Storage.MaxUploadSize,
		DownloadURLExpiry: cfg.Storage.PresignExpiry,
	})
	brandingService := branchapp.NewBrandingService(brandingRepo, assetService, log)
	customerService := customerapp.NewCustomerService(customerRepo, orderRepo, log)
	itemService := catalogapp.NewServiceItemService(itemRepo, log)
	planService := subscriptionapp.NewPlanService(planRepo, log)
	subService := subscriptionapp.NewSubscriptionService(subRepo, planRepo, customerRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, customerRepo, itemRepo, subRepo, areaService, txScope, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, orderRepo, branchRepo, billingapp.InvoiceConfig{
		Currency:       cfg.Billing.Currency,
		DefaultTaxRate: cfg.Billing.DefaultTaxRate,
		Prefix:         cfg.Billing.InvoicePrefix,
	}, log)
	invoiceService.SetTransactionScope(txScope)
	pdfService := billingapp.NewInvoicePDFService(invoiceRepo, branchRepo, brandingRepo, customerRepo,
		assetService, invoiceTemplate, renderer, log)
	pdfService.SetLocation(cfg.App.Location())
	paymentService := paymentapp.NewPaymentService(paymentRepo, invoiceRepo, txScope, stores.Idempotency, log)
	analyticsService := analyticsapp.NewAnalyticsService(revenueRepo, orderRepo, subRepo, customerRepo,
		stores.Results, cfg.Analytics.CacheTTL, log)
	analyticsService.SetLocation(cfg.App.Location())

	for _, s := range []interface{ SetEventPublisher(shared.EventPublisher) }{
		authService, userService, branchService, areaService, brandingService, customerService,
		subService, orderService, invoiceService, paymentService,
	} {
		s.SetEventPublisher(eventBus)
	}
	eventBus.Subscribe(analyticsapp.NewCacheInvalidator(analyticsService, log.Named("analytics")))

	// Background jobs
	jobs := scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout}, log.Named("scheduler"))
	if cfg.Scheduler.Enabled {
		expiry := scheduler.NewSubscriptionExpiryJob(subService, cfg.Scheduler.BatchSize, log)
		if err := jobs.Register(expiry, cfg.Scheduler.SubscriptionExpiryInterval); err != nil {
			log.Fatal("Failed to register subscription expiry job", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	secureCfg := middleware.DefaultSecurityConfig()
	secureCfg.HSTSEnabled = cfg.App.IsProduction()

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, tel.Tracer.IsEnabled()),
		middleware.SecureWithConfig(secureCfg),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(tel.Meter),
		middleware.SchemaGuard(schemaState, "/health", "/api/v1/health"),
	)

	systemHandler := handler.NewSystemHandler(version).
		AddCheck("database", db.Ping, true)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}, false)
	}
	engine.GET("/health", systemHandler.Health)

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenantID)
	if err != nil {
		log.Warn("No valid default tenant configured, public routes require X-Tenant-ID",
			zap.String("default_tenant_id", cfg.App.DefaultTenantID))
		defaultTenant = uuid.Nil
	}

	authenticate := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	scoped := []gin.HandlerFunc{
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:          tel.Profiler.IsEnabled(),
			SkipPaths:        []string{"/health", "/api/v1/health"},
			SkipPathPrefixes: []string{"/swagger"},
		}),
	}
	authLimit := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Close()
		scoped = append(scoped, middleware.RateLimit(limiter))
		authLimit = middleware.AuthRateLimit(authLimiter)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.Mount(r, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Customer:     handler.NewCustomerHandler(customerService),
		Branch:       handler.NewBranchHandler(branchService),
		ServiceArea:  handler.NewServiceAreaHandler(areaService),
		Branding:     handler.NewBrandingHandler(brandingService),
		Catalog:      handler.NewCatalogHandler(itemService),
		Plan:         handler.NewPlanHandler(planService),
		Subscription: handler.NewSubscriptionHandler(subService),
		Order:        handler.NewOrderHandler(orderService),
		Invoice:      handler.NewInvoiceHandler(invoiceService, pdfService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Asset:        handler.NewAssetHandler(assetService),
		User:         handler.NewUserHandler(userService),
		System:       systemHandler,
	}, router.Access{
		Authenticate: authenticate,
		Tenant: middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
			DefaultTenantID: defaultTenant,
			HeaderEnabled:   true,
			Logger:          log,
		}),
		Scoped:    scoped,
		AuthLimit: authLimit,
	})
	r.Setup()

	// Swagger documentation
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, authenticate),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// prepareSchema checks the Postgres schema against the embedded migrations
// and auto-migrates the other drivers. A lagging Postgres schema only blocks
// the API when database.require_schema_version is set.
func prepareSchema(db *persistence.Database, cfg config.DatabaseConfig, state *middleware.SchemaState, log *zap.Logger) {
	if db.Driver != "postgres" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to auto-migrate database", zap.Error(err))
		}
		return
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, log.Named("migrate"))
	if err != nil {
		log.Fatal("Failed to open migrations", zap.Error(err))
	}
	status, err := migrator.Status()
	if err != nil {
		log.Fatal("Failed to read schema version", zap.Error(err))
	}
	if schemaErr := status.Err(); schemaErr != nil {
		if cfg.RequireSchemaVersion {
			log.Error("Database schema is out of date, API answers 503 until migrated",
				zap.Uint("current", status.Current), zap.Uint("latest", status.Latest), zap.Bool("dirty", status.Dirty))
			state.Set(schemaErr)
			return
		}
		log.Warn("Database schema is behind this build",
			zap.Uint("current", status.Current), zap.Uint("latest", status.Latest))
		return
	}
	log.Info("Database schema is current", zap.Uint("version", status.Current))
}

func newRenderer(cfg config.PrintingConfig, log *zap.Logger) printing.PDFRenderer {
	if !cfg.Enabled {
		log.Info("Invoice PDF rendering disabled")
		return printing.DisabledRenderer{}
	}
	r, err := printing.NewChromedpRenderer(cfg, log.Named("printing"))
	if err != nil {
		log.Fatal("Failed to start PDF renderer", zap.Error(err))
	}
	return r
}
