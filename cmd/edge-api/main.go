package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/noah-isme/lms-edge-api/api/swagger"
	"github.com/noah-isme/lms-edge-api/internal/handler"
	"github.com/noah-isme/lms-edge-api/internal/repository"
	"github.com/noah-isme/lms-edge-api/internal/service"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/cache"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	"github.com/noah-isme/lms-edge-api/pkg/database"
	"github.com/noah-isme/lms-edge-api/pkg/export"
	"github.com/noah-isme/lms-edge-api/pkg/jobs"
	"github.com/noah-isme/lms-edge-api/pkg/logger"
	"github.com/noah-isme/lms-edge-api/pkg/storage"
)

// @title LMS Edge API
// @version 0.1.0
// @description Edge gateway in front of the LMS REST API: catalog caching, cart and checkout, back-office passthrough
// @BasePath /
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	receiptFiles, err := storage.NewLocalStorage(cfg.Receipts.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init receipt storage", "error", err)
	}
	uploadFiles, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	upstreamClient := upstream.New(cfg.Upstream, logr).WithObserver(metricsSvc)

	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cartRepo := repository.NewCartRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Checkout.SessionTTL)

	signer := storage.NewSignedURLSigner(cfg.Receipts.SignedURLSecret, cfg.Receipts.SignedURLTTL)
	receiptSvc := service.NewReceiptService(export.NewPDFExporter(), receiptFiles, signer, logr)
	receiptQueue := jobs.NewQueue("receipt-render", receiptSvc.RenderHandler(), jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
		Logger:     logr,
	})

	// The sync queue and the progress service reference each other; the
	// closure defers the handler lookup until jobs actually flow.
	var progressSvc *service.ProgressService
	syncQueue := jobs.NewQueue("progress-sync", func(ctx context.Context, job jobs.Job) error {
		return progressSvc.SyncHandler()(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Sync.Workers,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
		Logger:     logr,
	})
	progressSvc = service.NewProgressService(upstreamClient, syncQueue, validate, logr)

	authSvc := service.NewAuthService(cfg.Auth)
	catalogSvc := service.NewCatalogService(upstreamClient, cacheRepo, cfg.Catalog, logr)
	cartSvc := service.NewCartService(cartRepo, upstreamClient, validate, logr)
	checkoutSvc := service.NewCheckoutService(
		cartRepo,
		sessionRepo,
		upstreamClient,
		service.SimulatedGateway{},
		receiptSvc,
		receiptQueue,
		cfg.Checkout,
		logr,
	).WithMetrics(metricsSvc)
	courseAdminSvc := service.NewCourseAdminService(
		upstreamClient,
		uploadFiles,
		catalogSvc,
		export.NewCSVExporter(),
		cfg.Uploads,
		validate,
		logr,
	)
	moduleSvc := service.NewModuleService(upstreamClient, validate, logr)
	subscriptionSvc := service.NewSubscriptionService(upstreamClient, cfg.Subscriptions.ProtectedIDs, validate, logr)
	learningSvc := service.NewLearningService(upstreamClient)
	quizSvc := service.NewQuizService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	syncQueue.Start(ctx)
	defer syncQueue.Stop()
	receiptQueue.Start(ctx)
	defer receiptQueue.Stop()

	router := &handler.Router{
		Catalog:       handler.NewCatalogHandler(catalogSvc),
		CourseAdmin:   handler.NewCourseAdminHandler(courseAdminSvc),
		Modules:       handler.NewModuleHandler(moduleSvc),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionSvc),
		Cart:          handler.NewCartHandler(cartSvc),
		Checkout:      handler.NewCheckoutHandler(checkoutSvc, receiptSvc),
		Progress:      handler.NewProgressHandler(progressSvc),
		Learning:      handler.NewLearningHandler(learningSvc),
		Quiz:          handler.NewQuizHandler(quizSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
		Auth:          authSvc,
		MetricsSvc:    metricsSvc,
		Logger:        logr,
	}

	r := router.Setup(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
