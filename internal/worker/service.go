package worker

import (
	"context"
	"errors"
	"time"

	"github.com/magazine-next/internal/config"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultReconcileInterval = 5 * time.Minute

// Service runs the asynq server plus the periodic dispatch reconciliation loop.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name reports the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the server until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.DispatchService != nil {
		go s.runDispatchReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runDispatchReconcileLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.DispatchService == nil {
		return
	}
	interval := defaultReconcileInterval
	limit := 0
	if s.consumer.Config != nil {
		if seconds := s.consumer.Config.Dispatch.ReconcileIntervalSeconds; seconds > 0 {
			interval = time.Duration(seconds) * time.Second
		}
		limit = s.consumer.Config.Dispatch.AssignBatchLimit
	}

	runOnce := func() {
		result, err := s.consumer.DispatchService.AssignEditions(limit)
		if err != nil {
			logger.Warnw("worker_dispatch_reconcile_failed", "error", err)
			return
		}
		if result.Updated > 0 {
			logger.Infow("worker_dispatch_reconcile_done", "scanned", result.Scanned, "updated", result.Updated)
		}
		// The expiry sweep goes through the queue so it shares the task
		// retry and observability path with externally enqueued sweeps.
		if s.consumer.QueueClient != nil {
			if err := s.consumer.QueueClient.EnqueueSubscriptionExpire(); err != nil {
				logger.Warnw("worker_subscription_expire_enqueue_failed", "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
