package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/provider"
	"github.com/cartkeeper/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartAbandonSweep, c.handleCartAbandonSweep)
	mux.HandleFunc(queue.TaskCartRetentionSweep, c.handleCartRetentionSweep)
}

func (c *Consumer) handleCartAbandonSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_abandon_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_abandon_sweep_unmarshal_failed", "error", err)
		return err
	}
	if c.SweepService == nil {
		logger.Warnw("worker_cart_abandon_sweep_skip_service_nil")
		return nil
	}
	affected, err := c.SweepService.AbandonIdleCarts(time.Now())
	if err != nil {
		logger.Warnw("worker_cart_abandon_sweep_failed", "error", err)
		return err
	}
	logger.Debugw("worker_cart_abandon_sweep_done", "carts_abandoned", affected)
	return nil
}

func (c *Consumer) handleCartRetentionSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_retention_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_retention_sweep_unmarshal_failed", "error", err)
		return err
	}
	if c.SweepService == nil {
		logger.Warnw("worker_cart_retention_sweep_skip_service_nil")
		return nil
	}
	deleted, err := c.SweepService.PurgeStaleCarts(time.Now())
	if err != nil {
		logger.Warnw("worker_cart_retention_sweep_failed", "error", err)
		return err
	}
	logger.Debugw("worker_cart_retention_sweep_done", "carts_deleted", deleted)
	return nil
}
