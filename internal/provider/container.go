package provider

import (
	"time"

	"github.com/cartkeeper/internal/cache"
	"github.com/cartkeeper/internal/config"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/models"
	"github.com/cartkeeper/internal/queue"
	"github.com/cartkeeper/internal/repository"
	"github.com/cartkeeper/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository

	// Services
	CartService  *service.CartService
	SweepService *service.SweepService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	cartRepo := repository.NewCartRepository(models.DB)
	productRepo := repository.NewProductRepository(models.DB)

	productCacheTTL := time.Duration(cfg.Cart.CacheProductLookupTTLSeconds) * time.Second

	return &Container{
		Config:      cfg,
		QueueClient: queueClient,

		CartRepo:    cartRepo,
		ProductRepo: productRepo,

		CartService:  service.NewCartService(cartRepo, productRepo, productCacheTTL),
		SweepService: service.NewSweepService(cartRepo, cfg.Cart.AbandonAfter(), cfg.Cart.PurgeAfter()),
	}
}
