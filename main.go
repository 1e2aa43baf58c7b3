package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusconnect/config"
	"campusconnect/cron"
	"campusconnect/database"
	campaignRepo "campusconnect/database/repository/campaign"
	sessionRepo "campusconnect/database/repository/session"
	"campusconnect/handlers"
	"campusconnect/routes"
	"campusconnect/services/campaign"
	"campusconnect/services/donation"
	"campusconnect/services/notification"
	"campusconnect/services/storage"
	"campusconnect/services/tasks"
	"campusconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Firebase is always needed for ID tokens and push, whatever the store.
	utils.FirebaseInit()
	sessionCache := utils.GetSessionCacheClient()

	checks := map[string]utils.HealthCheck{
		"redis": func(ctx context.Context) error {
			return sessionCache.Ping(ctx).Err()
		},
	}

	var store campaignRepo.Store
	switch config.AppConfig.StoreBackend {
	case "mongo":
		database.InitDB()
		store = campaignRepo.NewMongoStore(database.MongoClient, config.AppConfig.DatabaseName)
		checks["mongo"] = func(ctx context.Context) error {
			return database.MongoClient.Ping(ctx, nil)
		}
	case "memory":
		logger.Warn("using in-memory campaign store; data is lost on restart")
		store = campaignRepo.NewMemoryStore()
	default:
		store = campaignRepo.NewFirestoreStore(utils.FirestoreClient)
		checks["firestore"] = func(ctx context.Context) error {
			_, err := utils.FirestoreClient.Collection(campaignRepo.CampaignsCollection).Limit(1).Documents(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}
	}

	var images storage.ImageStore
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("campaign image uploads disabled", zap.Error(err))
	} else {
		images = cld
	}

	// Organizer notifications go through the asynq queue.
	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	notificationService, err := notification.NewDefaultNotificationService(
		notification.NewFirestoreTokenLookup(utils.FirestoreClient),
		utils.FCMClient,
		logger,
	)
	if err != nil {
		logger.Fatal("main: failed to initialize notification service", zap.Error(err))
	}
	worker := cron.InitDonationWorker(notificationService, logger)

	// services.
	campaignService, err := campaign.NewDefaultCampaignService(store, images, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize campaign service", zap.Error(err))
	}

	snapshots := sessionRepo.NewRedisSnapshotStore(
		sessionCache,
		config.AppConfig.SessionTTL()+donation.ClosedRetention,
	)
	manager, err := donation.NewManager(donation.ManagerConfig{
		Campaigns: store,
		Ledger:    store,
		Notifier:  tasks.NewDonationEnqueuer(queueClient),
		Snapshots: snapshots,
		Logger:    logger,
		Options: donation.Options{
			ProcessingDelay: config.AppConfig.ProcessingDelay(),
			SuccessDelay:    config.AppConfig.SuccessDelay(),
			MinAmount:       config.AppConfig.MinDonation,
			SessionTTL:      config.AppConfig.SessionTTL(),
			DefaultPayee: donation.Payee{
				Address: config.AppConfig.DefaultUPIID,
				Name:    config.AppConfig.DefaultPayeeName,
			},
		},
	})
	if err != nil {
		logger.Fatal("main: failed to initialize donation manager", zap.Error(err))
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	managerDone := make(chan struct{})
	go func() {
		manager.Run(bgCtx, utils.SessionSweepInterval)
		close(managerDone)
	}()
	utils.StartHealthMonitor(bgCtx, utils.HealthCheckInterval, checks)

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(
		utils.AuthClient,
		config.AppConfig.MaxRequestsPerMin,
		handlers.NewCampaignHandler(campaignService),
		handlers.NewDonationHandler(manager, snapshots),
	)

	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	// Open dialogs are closed before the stores go away.
	stopBackground()
	<-managerDone
	worker.Shutdown()
	if err := queueClient.Close(); err != nil {
		logger.Warn("main: failed to close queue client", zap.Error(err))
	}
	database.CloseDB(ctx)
	utils.FirebaseClose()
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}
