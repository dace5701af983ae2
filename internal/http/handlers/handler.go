package handlers

import (
	"github.com/cartkeeper/internal/provider"
)

// Handler 购物车接口处理器
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
