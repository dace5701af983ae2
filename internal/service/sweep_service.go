package service

import (
	"time"

	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/repository"
)

// SweepService 购物车生命周期批量任务：
// active → abandoned（闲置超过标记阈值），以及删除超过保留期的购物车。
// 两个操作都是幂等的：连续执行第二次不会再改动任何行。
type SweepService struct {
	cartRepo     repository.CartRepository
	abandonAfter time.Duration
	purgeAfter   time.Duration
}

// NewSweepService 创建生命周期任务服务
func NewSweepService(cartRepo repository.CartRepository, abandonAfter, purgeAfter time.Duration) *SweepService {
	if abandonAfter <= 0 {
		abandonAfter = 3 * time.Hour
	}
	if purgeAfter <= 0 {
		purgeAfter = 7 * 24 * time.Hour
	}
	return &SweepService{
		cartRepo:     cartRepo,
		abandonAfter: abandonAfter,
		purgeAfter:   purgeAfter,
	}
}

// AbandonIdleCarts 把闲置超过阈值的 active 购物车批量标记为 abandoned。
// 只改状态，不触碰合计金额。
func (s *SweepService) AbandonIdleCarts(now time.Time) (int64, error) {
	cutoff := now.Add(-s.abandonAfter)
	affected, err := s.cartRepo.MarkAbandonedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		logger.Infow("cart_abandon_sweep_done", "carts_abandoned", affected, "cutoff", cutoff)
	}
	return affected, nil
}

// PurgeStaleCarts 删除闲置超过保留期的购物车，连同其全部购物车项。
// 按批量任务的字面规则：只看 updated_at，不区分状态。
func (s *SweepService) PurgeStaleCarts(now time.Time) (int64, error) {
	cutoff := now.Add(-s.purgeAfter)
	deleted, err := s.cartRepo.DeleteUpdatedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Infow("cart_retention_sweep_done", "carts_deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
