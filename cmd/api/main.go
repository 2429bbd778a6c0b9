package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landing_leads_backend/internal/email"
	"landing_leads_backend/internal/events"
	apphttp "landing_leads_backend/internal/http"
	"landing_leads_backend/internal/http/router"
	"landing_leads_backend/internal/leads"
	"landing_leads_backend/internal/notification"
	"landing_leads_backend/internal/storage"
	"landing_leads_backend/internal/wizard"
	"landing_leads_backend/platform/config"
	"landing_leads_backend/platform/logger"
	"landing_leads_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	// The CRM integration degrades instead of failing the boot: without
	// credentials every submission is rejected with the retry message,
	// but the rest of the API stays up.
	if !cfg.HasCRMCredentials() {
		log.Warn("CRM credentials not configured; submissions will fail until CRM_API_KEY and CRM_LOCATION_ID are set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for CV uploads: MinIO when configured, otherwise a
	// disabled store so the API boots without one (uploads are accepted
	// but never forwarded to the CRM).
	storageSvc := initStorage(ctx, cfg, log)

	// Wizard session store: Redis when configured, in-process otherwise
	sessionStore, closeStore := initSessionStore(ctx, cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	sender := email.NewSender(cfg)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	leadsModule, err := leads.NewModule(cfg, sessionStore, storageSvc, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.Service {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; uploads are accepted but not stored and no file link reaches the CRM")
		return storage.NewDisabledService(cfg.GetMinIOMaxFileSize())
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure cv-uploads bucket", 5, 2*time.Second, func() error {
		return svc.EnsureBucketExists(ctx, cfg.GetMinioBucketCVUploads())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketCVUploads())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "cvUploadsBucket", cfg.GetMinioBucketCVUploads())
	return svc
}

func initSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (wizard.Store, func()) {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_ADDR not configured; wizard sessions are held in memory and lost on restart")
		return wizard.NewMemoryStore(cfg.GetSessionTTL()), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established", "addr", cfg.GetRedisAddr())

	return wizard.NewRedisStore(client, cfg.GetSessionTTL()), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
