package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/agencydesk/agency-api/api/swagger"
	"github.com/agencydesk/agency-api/internal/handler"
	"github.com/agencydesk/agency-api/internal/middleware"
	"github.com/agencydesk/agency-api/internal/repository"
	"github.com/agencydesk/agency-api/internal/service"
	"github.com/agencydesk/agency-api/pkg/cache"
	"github.com/agencydesk/agency-api/pkg/config"
	"github.com/agencydesk/agency-api/pkg/database"
	"github.com/agencydesk/agency-api/pkg/logger"
	corsmiddleware "github.com/agencydesk/agency-api/pkg/middleware/cors"
	reqidmiddleware "github.com/agencydesk/agency-api/pkg/middleware/requestid"
	"github.com/agencydesk/agency-api/pkg/storage"
)

// @title Agency Pulse API
// @version 1.0.0
// @description Client scoring and prioritization API for agency workspaces
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, scoring cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scoring.HealthCacheTTL, logr, cfg.Scoring.CacheEnabled && redisClient != nil)

	clientRepo := repository.NewClientRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	hourRepo := repository.NewHourEntryRepository(db)
	messageRepo := repository.NewPortalMessageRepository(db)
	costRepo := repository.NewCostRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "agency-api",
	})

	scoringSvc := service.NewScoringService(service.ScoringServiceParams{
		Clients:  clientRepo,
		Tasks:    taskRepo,
		Activity: activityRepo,
		Messages: messageRepo,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		Config: service.ScoringServiceConfig{
			HealthCacheTTL: cfg.Scoring.HealthCacheTTL,
			AlertsCacheTTL: cfg.Scoring.AlertsCacheTTL,
		},
	})

	profitabilitySvc := service.NewProfitabilityService(clientRepo, hourRepo, settingsRepo, cfg.Billing.DefaultHourlyRate, logr)

	clientSvc := service.NewClientService(service.ClientServiceParams{
		Repo:        clientRepo,
		Activity:    activityRepo,
		Hours:       hourRepo,
		Messages:    messageRepo,
		Invalidator: scoringSvc,
		Validator:   validate,
		Logger:      logr,
	})

	taskSvc := service.NewTaskService(taskRepo, clientRepo, scoringSvc, validate, logr)

	financeSvc := service.NewFinanceService(service.FinanceServiceParams{
		Clients:     clientRepo,
		Costs:       costRepo,
		Users:       userRepo,
		Hours:       hourRepo,
		Settings:    settingsRepo,
		DefaultRate: cfg.Billing.DefaultHourlyRate,
		Validator:   validate,
		Logger:      logr,
	})

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc := service.NewReportService(profitabilitySvc, store, signer, cfg.APIPrefix+"/reports/download", logr)
		reportHandler = handler.NewReportHandler(reportSvc)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	clientHandler := handler.NewClientHandler(clientSvc, scoringSvc, profitabilitySvc)
	alertHandler := handler.NewAlertHandler(scoringSvc)
	taskHandler := handler.NewTaskHandler(taskSvc, scoringSvc)
	financeHandler := handler.NewFinanceHandler(financeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	if reportHandler != nil {
		// Download auth rides on the signed token, not the JWT, so
		// links work when pasted into a browser.
		api.GET("/reports/download", reportHandler.Download)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/clients", clientHandler.List)
	secured.POST("/clients", clientHandler.Create)
	secured.GET("/clients/health", clientHandler.HealthAll)
	secured.GET("/clients/:id", clientHandler.Get)
	secured.PUT("/clients/:id", clientHandler.Update)
	secured.DELETE("/clients/:id", clientHandler.Delete)
	secured.GET("/clients/:id/health", clientHandler.Health)
	secured.GET("/clients/:id/activity", clientHandler.ListActivity)
	secured.POST("/clients/:id/activity", clientHandler.LogActivity)
	secured.GET("/clients/:id/hours", clientHandler.ListHours)
	secured.POST("/clients/:id/hours", clientHandler.LogHours)
	secured.GET("/clients/:id/messages", clientHandler.ListMessages)
	secured.POST("/clients/:id/messages", clientHandler.SendMessage)
	secured.POST("/clients/:id/messages/read", clientHandler.MarkMessagesRead)

	secured.GET("/alerts", alertHandler.List)

	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks/queue", taskHandler.Queue)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.PUT("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)

	admin := secured.Group("")
	admin.Use(middleware.AdminOnly())

	admin.GET("/clients/profitability", clientHandler.ProfitabilityAll)
	admin.GET("/clients/:id/profitability", clientHandler.Profitability)
	admin.GET("/finance/summary", financeHandler.Summary)
	admin.GET("/finance/capacity", financeHandler.Capacity)
	admin.GET("/finance/costs", financeHandler.ListCosts)
	admin.POST("/finance/costs", financeHandler.CreateCost)
	admin.DELETE("/finance/costs/:id", financeHandler.DeleteCost)
	admin.GET("/settings", financeHandler.Settings)
	admin.PATCH("/settings", financeHandler.UpdateSettings)
	admin.GET("/metrics/summary", metricsHandler.Snapshot)
	if reportHandler != nil {
		admin.GET("/reports/profitability", reportHandler.Profitability)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
