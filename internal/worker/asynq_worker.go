package worker

import (
	"context"
	"encoding/json"

	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/provider"
	"github.com/magazine-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles asynchronous queue tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the task consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers to the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDispatchAssign, c.handleDispatchAssign)
	mux.HandleFunc(queue.TaskSubscriptionExpire, c.handleSubscriptionExpire)
}

func (c *Consumer) handleDispatchAssign(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_dispatch_assign_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DispatchAssignPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_dispatch_assign_unmarshal_failed", "error", err)
		return err
	}
	if c.DispatchService == nil {
		logger.Warnw("worker_dispatch_assign_skip_service_nil")
		return nil
	}
	limit := payload.Limit
	if limit <= 0 && c.Config != nil {
		limit = c.Config.Dispatch.AssignBatchLimit
	}
	result, err := c.DispatchService.AssignEditions(limit)
	if err != nil {
		logger.Warnw("worker_dispatch_assign_failed", "limit", limit, "error", err)
		return err
	}
	logger.Infow("worker_dispatch_assign_done", "scanned", result.Scanned, "updated", result.Updated)
	return nil
}

func (c *Consumer) handleSubscriptionExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_subscription_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SubscriptionExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_subscription_expire_unmarshal_failed", "error", err)
		return err
	}
	if c.SubscriptionService == nil {
		logger.Warnw("worker_subscription_expire_skip_service_nil")
		return nil
	}
	expired, err := c.SubscriptionService.ExpireEnded()
	if err != nil {
		logger.Warnw("worker_subscription_expire_failed", "error", err)
		return err
	}
	if expired > 0 {
		logger.Infow("worker_subscription_expire_done", "expired", expired)
	}
	return nil
}
