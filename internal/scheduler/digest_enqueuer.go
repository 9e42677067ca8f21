package scheduler

import (
	"context"
	"time"

	"anchor_crm_backend/platform/logger"
)

// digestHour is the local hour the daily digest fires.
const digestHour = 7

// DigestEnqueuer schedules one stale-digest task per day.
type DigestEnqueuer struct {
	client *Client
	log    *logger.Logger
}

func NewDigestEnqueuer(client *Client, log *logger.Logger) *DigestEnqueuer {
	return &DigestEnqueuer{client: client, log: log}
}

// Run enqueues the next digest and then one per day until the context is
// cancelled. Asynq deduplicates nothing here; the enqueuer is the single
// writer for this task type.
func (e *DigestEnqueuer) Run(ctx context.Context) {
	for {
		runAt := nextRun(time.Now())

		payload := StaleDigestPayload{ForDate: runAt.Format("2006-01-02")}
		if err := e.client.ScheduleStaleDigest(ctx, payload, runAt); err != nil {
			e.log.Error("failed to schedule stale digest", "error", err)
		} else {
			e.log.Info("stale digest scheduled", "runAt", runAt)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(runAt) + time.Minute):
		}
	}
}

func nextRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), digestHour, 0, 0, 0, now.Location())
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}
