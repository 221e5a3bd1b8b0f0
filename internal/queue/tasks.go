package queue

import (
	"encoding/json"

	"github.com/magazine-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDispatchAssign fills unassigned dispatch slots with published editions.
	TaskDispatchAssign = constants.TaskDispatchAssign
	// TaskSubscriptionExpire marks ended subscriptions as EXPIRED.
	TaskSubscriptionExpire = constants.TaskSubscriptionExpire
)

// DispatchAssignPayload is the reconciliation task payload.
type DispatchAssignPayload struct {
	Limit int `json:"limit"`
}

// SubscriptionExpirePayload is the expiry sweep task payload.
type SubscriptionExpirePayload struct{}

// NewDispatchAssignTask creates a reconciliation task.
func NewDispatchAssignTask(payload DispatchAssignPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDispatchAssign, body), nil
}

// NewSubscriptionExpireTask creates an expiry sweep task.
func NewSubscriptionExpireTask(payload SubscriptionExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSubscriptionExpire, body), nil
}
