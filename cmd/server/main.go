package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/granada-os/backend/internal/application/analytics"
	billingapp "github.com/granada-os/backend/internal/application/billing"
	eventapp "github.com/granada-os/backend/internal/application/event"
	fundingapp "github.com/granada-os/backend/internal/application/funding"
	identityapp "github.com/granada-os/backend/internal/application/identity"
	organizationapp "github.com/granada-os/backend/internal/application/organization"
	proposalapp "github.com/granada-os/backend/internal/application/proposal"
	reportapp "github.com/granada-os/backend/internal/application/report"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/infrastructure/auth"
	"github.com/granada-os/backend/internal/infrastructure/cache"
	"github.com/granada-os/backend/internal/infrastructure/config"
	"github.com/granada-os/backend/internal/infrastructure/event"
	"github.com/granada-os/backend/internal/infrastructure/geo"
	"github.com/granada-os/backend/internal/infrastructure/logger"
	"github.com/granada-os/backend/internal/infrastructure/payment"
	"github.com/granada-os/backend/internal/infrastructure/persistence"
	"github.com/granada-os/backend/internal/infrastructure/probe"
	"github.com/granada-os/backend/internal/infrastructure/scheduler"
	"github.com/granada-os/backend/internal/infrastructure/storage"
	"github.com/granada-os/backend/internal/infrastructure/telemetry"
	"github.com/granada-os/backend/internal/interfaces/http/handler"
	"github.com/granada-os/backend/internal/interfaces/http/middleware"
	"github.com/granada-os/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			Granada OS API
//	@version		1.0
//	@description	Funding opportunity discovery and proposal management platform

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
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Granada OS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	txManager := persistence.NewGormTransactionManager(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	donorRepo := persistence.NewGormDonorRepository(db.DB)
	botRepo := persistence.NewGormBotRepository(db.DB)
	proposalRepo := persistence.NewGormProposalRepository(db.DB)
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	ledgerRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	interactionRepo := persistence.NewGormInteractionRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Redis-backed token blacklist, with an in-memory fallback for
	// single-instance deployments without Redis
	var blacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		_ = redisClient.Close()
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer func() {
			_ = redisClient.Close()
		}()
	}
	cancelPing()

	// Idempotency store for event handlers
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Warn("Falling back to in-memory idempotency store", zap.Error(err))
		idempotencyStore = storeFactory.CreateInMemoryStore()
	}

	// Proposal document storage
	objectStore, err := storage.NewObjectStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// GeoIP resolver for analytics enrichment
	geoResolver, err := geo.NewResolver(&cfg.Geo, log)
	if err != nil {
		log.Fatal("Failed to initialize GeoIP resolver", zap.Error(err))
	}

	// Verification prober and card gateway
	prober := probe.NewHTTPProber(probe.WithLogger(log))
	verifier := funding.NewVerifier(prober, opportunityRepo)
	cardGateway := payment.NewSimulatedCardGateway(log)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, outboxRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userAdminService := identityapp.NewUserAdminService(userRepo, ledgerRepo, outboxRepo, blacklist, txManager, log)
	opportunityService := fundingapp.NewOpportunityService(opportunityRepo, donorRepo, userRepo, verifier, outboxRepo, log)
	donorService := fundingapp.NewDonorService(donorRepo, log)
	botService := fundingapp.NewBotService(botRepo, opportunityService, outboxRepo, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, userRepo, ledgerRepo, outboxRepo, cardGateway, txManager, log)
	creditService := billingapp.NewCreditService(ledgerRepo, userRepo, log)
	proposalService := proposalapp.NewService(
		proposalRepo, opportunityRepo, userRepo, ledgerRepo,
		objectStore, outboxRepo, txManager, proposalapp.DefaultServiceConfig(), log,
	)
	organizationService := organizationapp.NewService(organizationRepo, log)
	dashboardService := reportapp.NewDashboardService(
		userRepo, opportunityRepo, proposalRepo, ledgerRepo, paymentRepo, interactionRepo, log,
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Behavior analytics collector
	collectorConfig := analyticsapp.DefaultCollectorConfig()
	if cfg.Analytics.FlushInterval > 0 {
		collectorConfig.FlushInterval = cfg.Analytics.FlushInterval
	}
	if cfg.Analytics.SessionTTL > 0 {
		collectorConfig.SessionTTL = cfg.Analytics.SessionTTL
	}
	collector := analyticsapp.NewCollector(collectorConfig, interactionRepo, snapshotRepo, geoResolver, log)
	if cfg.Analytics.Enabled {
		if err := collector.Start(context.Background()); err != nil {
			log.Fatal("Failed to start analytics collector", zap.Error(err))
		}
		defer func() {
			if err := collector.Stop(context.Background()); err != nil {
				log.Error("Error stopping analytics collector", zap.Error(err))
			}
		}()
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Registration -> welcome credit grant, wrapped for exactly-once
	// processing across outbox redeliveries
	welcomeHandler := billingapp.NewUserRegisteredHandler(userRepo, ledgerRepo, txManager, log)
	eventBus.Subscribe(event.NewIdempotentHandler(welcomeHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("user_registered_events", welcomeHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor for guaranteed event delivery
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
	}
	outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}
	if cfg.Event.ProcessorEnabled {
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Background jobs (if enabled)
	if cfg.Scheduler.Enabled {
		jobScheduler := scheduler.NewScheduler(scheduler.Config{
			Enabled:    cfg.Scheduler.Enabled,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, log)
		jobs := []scheduler.Job{
			scheduler.NewExpirySweepJob(opportunityService, cfg.Scheduler.ExpirySweepInterval, log),
			scheduler.NewOutboxCleanupJob(outboxRepo, cfg.Event.CleanupRetention, log),
			scheduler.NewSnapshotRetentionJob(snapshotRepo, 0, log),
		}
		for _, job := range jobs {
			if err := jobScheduler.Register(job); err != nil {
				log.Fatal("Failed to register job", zap.String("job", job.Name), zap.Error(err))
			}
		}
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Background scheduler started", zap.Int("jobs", len(jobs)))
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userAdminService)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService)
	donorHandler := handler.NewDonorHandler(donorService)
	botHandler := handler.NewBotHandler(botService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	creditHandler := handler.NewCreditHandler(creditService, paymentService)
	proposalHandler := handler.NewProposalHandler(proposalService)
	organizationHandler := handler.NewOrganizationHandler(organizationService)
	analyticsHandler := handler.NewAnalyticsHandler(collector)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health probes (outside API versioning)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Local storage serves upload and download URLs through the API
	// itself; S3 presigned URLs bypass it entirely
	if localStore, ok := objectStore.(*storage.LocalObjectStorage); ok {
		fileHandler := handler.NewFileHandler(localStore)
		engine.PUT("/files/upload/*key", fileHandler.Upload)
		engine.GET("/files/download/*key", fileHandler.Download)
		log.Info("Local file endpoints registered", zap.String("path", cfg.Storage.LocalPath))
	}

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
			"/api/v1/analytics/events",
			"/api/v1/credits/packages",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Register domain route groups

	// Identity (registration, login, profile). Credential endpoints
	// get their own tighter limiter so password guessing is throttled
	// well below the global budget.
	credentialGuard := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		credentialGuard = middleware.AuthRateLimit(authLimiter)
	}
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", credentialGuard, authHandler.Register)
	authRoutes.POST("/login", credentialGuard, authHandler.Login)
	authRoutes.POST("/refresh", credentialGuard, authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/me", authHandler.UpdateProfile)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Funding opportunities (discovery, matching)
	opportunityRoutes := router.NewDomainGroup("opportunities", "/opportunities")
	opportunityRoutes.GET("", opportunityHandler.Search)
	opportunityRoutes.GET("/matches", opportunityHandler.Matches)
	opportunityRoutes.GET("/:id", opportunityHandler.Get)

	// Donor catalog (read side)
	donorRoutes := router.NewDomainGroup("donors", "/donors")
	donorRoutes.GET("", donorHandler.List)
	donorRoutes.GET("/:id", donorHandler.Get)

	// Billing (payments, credits)
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("", paymentHandler.ProcessPayment)
	paymentRoutes.GET("", paymentHandler.History)
	paymentRoutes.GET("/:id", paymentHandler.GetPayment)

	creditRoutes := router.NewDomainGroup("credits", "/credits")
	creditRoutes.GET("/packages", creditHandler.Packages)
	creditRoutes.GET("/balance", creditHandler.Balance)
	creditRoutes.GET("/ledger", creditHandler.Ledger)
	creditRoutes.POST("/validate-coupon", creditHandler.ValidateCoupon)

	// Proposals
	proposalRoutes := router.NewDomainGroup("proposals", "/proposals")
	proposalRoutes.POST("", proposalHandler.Create)
	proposalRoutes.GET("", proposalHandler.List)
	proposalRoutes.GET("/:id", proposalHandler.Get)
	proposalRoutes.PUT("/:id", proposalHandler.Update)
	proposalRoutes.DELETE("/:id", proposalHandler.Delete)
	proposalRoutes.POST("/:id/send-review", proposalHandler.SendForReview)
	proposalRoutes.POST("/:id/return-draft", proposalHandler.ReturnToDraft)
	proposalRoutes.POST("/:id/reopen", proposalHandler.Reopen)
	proposalRoutes.POST("/:id/submit", proposalHandler.Submit)
	proposalRoutes.POST("/:id/attachment/upload-request", proposalHandler.RequestUpload)
	proposalRoutes.POST("/:id/attachment/confirm", proposalHandler.ConfirmUpload)
	proposalRoutes.GET("/:id/attachment", proposalHandler.DownloadAttachment)

	// Organizations
	organizationRoutes := router.NewDomainGroup("organizations", "/organizations")
	organizationRoutes.POST("", organizationHandler.Create)
	organizationRoutes.GET("", organizationHandler.List)
	organizationRoutes.GET("/mine", organizationHandler.ListOwned)
	organizationRoutes.GET("/:id", organizationHandler.Get)
	organizationRoutes.PUT("/:id", organizationHandler.Update)
	organizationRoutes.DELETE("/:id", organizationHandler.Delete)

	// Behavior analytics ingest
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.POST("/events", analyticsHandler.IngestEvents)

	// System info
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	// Administration (all routes require the admin user type)
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.GET("/users", userHandler.ListUsers)
	adminRoutes.GET("/users/export", userHandler.ExportUsers)
	adminRoutes.GET("/users/:id", userHandler.GetUser)
	adminRoutes.POST("/users/:id/ban", userHandler.BanUser)
	adminRoutes.POST("/users/:id/unban", userHandler.UnbanUser)
	adminRoutes.POST("/users/:id/credits", userHandler.AdjustCredits)
	adminRoutes.POST("/opportunities", opportunityHandler.Ingest)
	adminRoutes.POST("/opportunities/:id/verify", opportunityHandler.Verify)
	adminRoutes.POST("/donors", donorHandler.Create)
	adminRoutes.PUT("/donors/:id", donorHandler.Update)
	adminRoutes.PUT("/donors/:id/active", donorHandler.SetActive)
	adminRoutes.GET("/bots", botHandler.List)
	adminRoutes.POST("/bots", botHandler.Register)
	adminRoutes.GET("/bots/:id", botHandler.Get)
	adminRoutes.POST("/bots/:id/pause", botHandler.Pause)
	adminRoutes.POST("/bots/:id/resume", botHandler.Resume)
	adminRoutes.POST("/bots/:id/ingest", botHandler.Ingest)
	adminRoutes.GET("/bots/:id/rewards", botHandler.Rewards)
	adminRoutes.POST("/proposals/:id/award", proposalHandler.Award)
	adminRoutes.POST("/proposals/:id/decline", proposalHandler.Decline)
	adminRoutes.PUT("/proposals/:id/status", proposalHandler.ForceStatus)
	adminRoutes.GET("/credits/totals", creditHandler.PlatformTotals)
	adminRoutes.GET("/dashboard/stats", dashboardHandler.Stats)
	adminRoutes.GET("/analytics/sessions", analyticsHandler.SessionCount)
	adminRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	adminRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	adminRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	adminRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	adminRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	// Register all domain groups
	r.Register(authRoutes).
		Register(opportunityRoutes).
		Register(donorRoutes).
		Register(paymentRoutes).
		Register(creditRoutes).
		Register(proposalRoutes).
		Register(organizationRoutes).
		Register(analyticsRoutes).
		Register(systemRoutes).
		Register(adminRoutes)

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
