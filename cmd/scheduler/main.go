package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityrepo "anchor_crm_backend/internal/activity/repository"
	leadsrepo "anchor_crm_backend/internal/leads/repository"
	"anchor_crm_backend/internal/notification"
	"anchor_crm_backend/internal/notification/email"
	orgrepo "anchor_crm_backend/internal/org/repository"
	reportsrepo "anchor_crm_backend/internal/reports/repository"
	reportsservice "anchor_crm_backend/internal/reports/service"
	"anchor_crm_backend/internal/scheduler"
	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/db"
	"anchor_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = db.NewPool(ctx, cfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	userRepo := orgrepo.New(pool)
	reportsSvc := reportsservice.New(
		reportsrepo.New(pool),
		userRepo,
		leadsrepo.New(pool),
		activityrepo.New(pool),
		log,
	)

	sender := email.NewSender(cfg, log)
	notificationSvc := notification.New(sender, userRepo, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to create scheduler client", "error", err)
		panic("failed to create scheduler client: " + err.Error())
	}
	defer client.Close()

	enqueuer := scheduler.NewDigestEnqueuer(client, log)
	go enqueuer.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, reportsSvc, userRepo, notificationSvc, log)
	if err != nil {
		log.Error("failed to create worker", "error", err)
		panic("failed to create worker: " + err.Error())
	}

	log.Info("scheduler worker running", "queue", cfg.AsynqQueueName)
	if err := worker.Run(ctx); err != nil {
		log.Error("worker stopped with error", "error", err)
		panic("worker stopped with error: " + err.Error())
	}
	log.Info("scheduler shut down")
}
