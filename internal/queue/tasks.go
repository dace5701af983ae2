package queue

import (
	"encoding/json"

	"github.com/cartkeeper/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartAbandonSweep 闲置购物车标记任务
	TaskCartAbandonSweep = constants.TaskCartAbandonSweep
	// TaskCartRetentionSweep 过期购物车清理任务
	TaskCartRetentionSweep = constants.TaskCartRetentionSweep
)

// SweepPayload 清扫任务载荷
type SweepPayload struct {
	RequestedAt int64 `json:"requested_at"` // Unix 秒，入队时间
}

// NewCartAbandonSweepTask 创建闲置标记任务
func NewCartAbandonSweepTask(payload SweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartAbandonSweep, body), nil
}

// NewCartRetentionSweepTask 创建过期清理任务
func NewCartRetentionSweepTask(payload SweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartRetentionSweep, body), nil
}
