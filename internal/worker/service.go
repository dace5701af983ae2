package worker

import (
	"context"
	"errors"
	"time"

	"github.com/cartkeeper/internal/config"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务：消费清扫任务，并按固定间隔把它们重新入队
type Service struct {
	name                   string
	server                 *asynq.Server
	mux                    *asynq.ServeMux
	consumer               *Consumer
	abandonSweepInterval   time.Duration
	retentionSweepInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:                   "worker",
		server:                 server,
		mux:                    mux,
		consumer:               consumer,
		abandonSweepInterval:   cfg.Cart.AbandonSweepInterval(),
		retentionSweepInterval: cfg.Cart.RetentionSweepInterval(),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient != nil && s.consumer.QueueClient.Enabled() {
		go s.runSweepScheduleLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runSweepScheduleLoop 按固定间隔入队两个清扫任务。
// 入队失败只告警：asynq 的重试策略负责任务本身的失败恢复。
func (s *Service) runSweepScheduleLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.QueueClient == nil {
		return
	}
	enqueueAbandon := func() {
		if err := s.consumer.QueueClient.EnqueueCartAbandonSweep(); err != nil {
			logger.Warnw("worker_enqueue_cart_abandon_sweep_failed", "error", err)
		}
	}
	enqueueRetention := func() {
		if err := s.consumer.QueueClient.EnqueueCartRetentionSweep(); err != nil {
			logger.Warnw("worker_enqueue_cart_retention_sweep_failed", "error", err)
		}
	}
	enqueueAbandon()
	enqueueRetention()

	abandonTicker := time.NewTicker(s.abandonSweepInterval)
	defer abandonTicker.Stop()
	retentionTicker := time.NewTicker(s.retentionSweepInterval)
	defer retentionTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-abandonTicker.C:
			enqueueAbandon()
		case <-retentionTicker.C:
			enqueueRetention()
		}
	}
}
