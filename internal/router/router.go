package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cartkeeper/internal/cache"
	"github.com/cartkeeper/internal/config"
	"github.com/cartkeeper/internal/http/handlers"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ck"
	}
	mutationRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart_mutation", redisPrefix),
		WindowSeconds: cfg.Security.MutationRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MutationRateLimit.MaxRequests,
		Message:       "Too many cart updates, slow down",
	}
	rateLimit := RateLimitMiddleware(cache.Client(), mutationRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 健康检查
	r.GET("/up", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 购物车接口
	r.GET("/cart", handler.GetCart)
	r.POST("/cart", rateLimit, handler.AddItem)
	r.POST("/cart/add_item", rateLimit, handler.AddItem)
	// 历史别名，老客户端仍在调用
	r.POST("/cart/add_items", rateLimit, handler.AddItem)
	r.DELETE("/cart/:product_id", rateLimit, handler.RemoveItem)

	return r
}
