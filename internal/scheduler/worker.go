package scheduler

import (
	"context"
	"fmt"
	"strings"

	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"
	reportsservice "anchor_crm_backend/internal/reports/service"
	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DigestSender delivers one stale-lead digest mail. Satisfied by
// notification.Service.
type DigestSender interface {
	SendStaleDigest(ctx context.Context, to, body string) error
}

// Worker consumes scheduled jobs. Currently one job type: the daily
// stale-lead digest for managers.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	reports *reportsservice.Service
	users   reportsservice.UserDirectory
	sender  DigestSender
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reports *reportsservice.Service, users reportsservice.UserDirectory, sender DigestSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		reports: reports,
		users:   users,
		sender:  sender,
		log:     log,
	}

	mux.HandleFunc(TaskStaleDigest, w.handleStaleDigest)

	return w, nil
}

// handleStaleDigest mails every active manager whose scope contains stale
// leads. Managers with a clean scope get no mail.
func (w *Worker) handleStaleDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseStaleDigestPayload(task)
	if err != nil {
		return err
	}

	users, err := w.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		if !u.Role.IsManager() || u.Status != orgdomain.UserActive || u.Email == "" {
			continue
		}

		stale, err := w.reports.StaleLeads(ctx, u.ID)
		if err != nil {
			w.log.Error("stale digest computation failed", "error", err, "userId", u.ID)
			continue
		}
		if len(stale) == 0 {
			continue
		}

		if err := w.sender.SendStaleDigest(ctx, u.Email, digestBody(payload.ForDate, stale)); err != nil {
			w.log.Error("stale digest send failed", "error", err, "to", u.Email)
			continue
		}
		w.log.Info("stale digest sent", "to", u.Email, "staleLeads", len(stale))
	}

	return nil
}

func digestBody(forDate string, stale []leaddomain.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stale lead report for %s\n\n", forDate)
	fmt.Fprintf(&b, "%d lead(s) in your team have had no activity since the last business day:\n\n", len(stale))
	for _, lead := range stale {
		fmt.Fprintf(&b, "- %s (%s, %s), last touched %s\n",
			lead.Name, lead.Kind, lead.Status, lead.LastTouched().Format("2006-01-02"))
	}
	b.WriteString("\nPlease follow up or reassign.\n")
	return b.String()
}

func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	return w.server.Run(w.mux)
}
