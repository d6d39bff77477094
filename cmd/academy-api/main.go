package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rakhadian/academy-admin-api/api/swagger"
	"github.com/rakhadian/academy-admin-api/internal/handler"
	"github.com/rakhadian/academy-admin-api/internal/middleware"
	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/repository"
	"github.com/rakhadian/academy-admin-api/internal/service"
	"github.com/rakhadian/academy-admin-api/pkg/cache"
	"github.com/rakhadian/academy-admin-api/pkg/config"
	"github.com/rakhadian/academy-admin-api/pkg/database"
	"github.com/rakhadian/academy-admin-api/pkg/jobs"
	"github.com/rakhadian/academy-admin-api/pkg/logger"
	"github.com/rakhadian/academy-admin-api/pkg/middleware/cors"
	"github.com/rakhadian/academy-admin-api/pkg/middleware/requestid"
	"github.com/rakhadian/academy-admin-api/pkg/storage"
)

// @title Academy Admin API
// @version 1.0.0
// @description Course enrollment administration with a five step enrollment wizard
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewWizardSessionRepository(redisClient, cfg.Enrollment.SessionTTL, log)
	cacheRepo := repository.NewCacheRepository(redisClient, log)

	metricsSvc := service.NewMetricsService()
	eligibilitySvc := service.NewEligibilityService(studentRepo, courseRepo, log)
	availabilitySvc := service.NewAvailabilityService(facilityRepo, cacheRepo, cfg.Enrollment.AvailabilityCacheTTL, log)
	couponSvc := service.NewCouponService(couponRepo, log)
	pricingSvc := service.NewPricingService(courseRepo, facilityRepo, couponSvc, cfg.Enrollment.MinimumPaymentPercent, nil, log)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, studentRepo, nil, log)
	wizardSvc := service.NewWizardService(sessionRepo, studentRepo, courseRepo, eligibilitySvc, availabilitySvc, pricingSvc, assignmentSvc, nil, log)
	authSvc := service.NewAuthService(userRepo, nil, log, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, log)
	courseSvc := service.NewCourseService(courseRepo, log)

	var receiptSvc *service.ReceiptService
	if cfg.Exports.Enabled {
		localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			log.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		receiptSvc = service.NewReceiptService(assignmentRepo, localStorage, signer, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		}, log)
		receiptSvc.Start(ctx)
		defer receiptSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	wizardHandler := handler.NewWizardHandler(wizardSvc, metricsSvc)
	configHandler := handler.NewEnrollmentConfigHandler(eligibilitySvc, availabilitySvc, pricingSvc, couponSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, pricingSvc, receiptSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	{
		protected.GET("/auth/me", authHandler.Me)

		sessions := protected.Group("/wizard/sessions")
		{
			sessions.POST("", wizardHandler.Start)
			sessions.GET("/:id", wizardHandler.Get)
			sessions.DELETE("/:id", wizardHandler.Delete)
			sessions.PUT("/:id/person", wizardHandler.SelectPerson)
			sessions.PUT("/:id/course", wizardHandler.SelectCourse)
			sessions.PUT("/:id/configuration", wizardHandler.Configure)
			sessions.PUT("/:id/payment", wizardHandler.SetPayment)
			sessions.POST("/:id/advance", wizardHandler.Advance)
			sessions.POST("/:id/retreat", wizardHandler.Retreat)
			sessions.POST("/:id/jump", wizardHandler.Jump)
			sessions.POST("/:id/finalize", wizardHandler.Finalize)
			sessions.POST("/:id/reset", wizardHandler.Reset)
		}

		enrollment := protected.Group("/enrollment")
		{
			enrollment.GET("/eligibility", configHandler.Eligibility)
			enrollment.GET("/default-facility", configHandler.DefaultFacility)
			enrollment.POST("/availability", configHandler.Availability)
			enrollment.POST("/pricing", configHandler.Pricing)
			enrollment.POST("/coupons/validate", configHandler.ValidateCoupon)
		}

		protected.GET("/courses/:id/facilities", configHandler.CourseFacilities)

		protected.GET("/assignments", assignmentHandler.List)
		protected.POST("/assignments", adminOnly, assignmentHandler.Create)
		protected.GET("/assignments/export", assignmentHandler.ExportCSV)
		protected.GET("/assignments/:id", assignmentHandler.Get)
		if receiptSvc != nil {
			protected.GET("/assignments/:id/receipt", assignmentHandler.ReceiptLink)
		}

		protected.GET("/students", studentHandler.List)
		protected.POST("/students", adminOnly, studentHandler.Create)
		protected.GET("/students/:id", studentHandler.Get)
		protected.GET("/courses", courseHandler.List)
		protected.GET("/courses/:id", courseHandler.Get)
	}

	// Download links carry their own HMAC token, so they skip JWT auth.
	if receiptSvc != nil {
		api.GET("/receipts/download", assignmentHandler.DownloadReceipt)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
