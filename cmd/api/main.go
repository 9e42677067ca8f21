package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anchor_crm_backend/internal/activity"
	"anchor_crm_backend/internal/auth"
	"anchor_crm_backend/internal/events"
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/internal/http/router"
	"anchor_crm_backend/internal/leads"
	"anchor_crm_backend/internal/notification"
	"anchor_crm_backend/internal/notification/email"
	"anchor_crm_backend/internal/org"
	"anchor_crm_backend/internal/reports"
	"anchor_crm_backend/internal/storage"
	"anchor_crm_backend/internal/tasks"
	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/db"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse redis url", "error", err)
		panic("failed to parse redis url: " + err.Error())
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	docStore, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize document storage", "error", err)
		panic("failed to initialize document storage: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure document bucket", 5, 2*time.Second, func() error {
		return docStore.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure document bucket exists", "error", err)
		panic("failed to ensure document bucket exists: " + err.Error())
	}
	log.Info("document storage initialized", "bucket", cfg.GetMinioBucketLeadDocuments())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	orgModule := org.NewModule(pool, val, log)
	userRepo := orgModule.Repository()

	authModule := auth.NewModule(userRepo, redisClient, cfg, val, log)
	leadsModule := leads.NewModule(pool, userRepo, docStore, eventBus, val, log)
	tasksModule := tasks.NewModule(pool, userRepo, val, log)
	activityModule := activity.NewModule(pool, userRepo, eventBus, val, log)
	reportsModule := reports.NewModule(pool, userRepo, leadsModule.Repository(), activityModule.Repository(), val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	sender := email.NewSender(cfg, log)
	notificationSvc := notification.New(sender, userRepo, log)
	notificationSvc.Subscribe(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			orgModule,
			leadsModule,
			tasksModule,
			activityModule,
			reportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
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
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}
