package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskStaleDigest = "reports.stale_digest"

// StaleDigestPayload identifies one digest run. ForDate pins the business
// day boundary so retries of the same task report the same window.
type StaleDigestPayload struct {
	ForDate string `json:"forDate"`
}

func NewStaleDigestTask(payload StaleDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStaleDigest, data), nil
}

func ParseStaleDigestPayload(task *asynq.Task) (StaleDigestPayload, error) {
	var payload StaleDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return StaleDigestPayload{}, err
	}
	return payload, nil
}
