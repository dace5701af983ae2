package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cartkeeper/internal/cache"
	"github.com/cartkeeper/internal/constants"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/models"
	"github.com/cartkeeper/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartViewProduct 购物车视图中的单个商品行
type CartViewProduct struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	Quantity   int          `json:"quantity"`
	UnitPrice  models.Money `json:"unit_price"`
	TotalPrice models.Money `json:"total_price"`
}

// CartView 购物车只读视图（接口响应形态）
type CartView struct {
	ID         uint              `json:"id"`
	Products   []CartViewProduct `json:"products"`
	TotalPrice models.Money      `json:"total_price"`
}

// AddItemInput 添加商品输入
type AddItemInput struct {
	ProductID uint
	Quantity  int // 数量增量，可为负，结果不得低于 1
}

// CartService 购物车服务：维护合计金额与数量的一致性
type CartService struct {
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	productCacheTTL time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, productCacheTTL time.Duration) *CartService {
	return &CartService{
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		productCacheTTL: productCacheTTL,
	}
}

// Current 获取当前购物车（最新且 active），不存在或已 abandoned 返回 ErrCartNotFound
func (s *CartService) Current() (*models.Cart, error) {
	latest, err := s.cartRepo.Latest()
	if err != nil {
		return nil, err
	}
	if latest == nil || !latest.IsActive() {
		return nil, ErrCartNotFound
	}
	return s.getByIDOrNotFound(latest.ID)
}

// ResolveCurrent 解析当前购物车：最新的 active 购物车，没有则新建一个空车
func (s *CartService) ResolveCurrent() (*models.Cart, error) {
	var resolved *models.Cart
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.resolveCurrentTx(s.cartRepo.WithTx(tx))
		if err != nil {
			return err
		}
		resolved = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getByIDOrNotFound(resolved.ID)
}

// AddItem 向当前购物车添加商品：按 (cart, product) 找到或创建购物车项，
// 数量加上增量后必须不低于 1，合计金额在同一事务内按全部明细重算。
// 返回刷新后的购物车以及是否新建了购物车项。
func (s *CartService) AddItem(input AddItemInput) (*models.Cart, bool, error) {
	if input.ProductID == 0 {
		return nil, false, ErrProductNotFound
	}
	product, err := s.lookupProduct(input.ProductID)
	if err != nil {
		return nil, false, err
	}
	if product == nil || !product.IsActive {
		return nil, false, ErrProductNotFound
	}

	var cartID uint
	var created bool
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := s.resolveCurrentTx(cartRepo)
		if err != nil {
			return err
		}
		cartID = cart.ID

		item, err := cartRepo.GetItem(cart.ID, product.ID)
		if err != nil {
			return err
		}
		quantity := input.Quantity
		if item != nil {
			quantity += item.Quantity
		}
		if quantity < 1 {
			return ErrQuantityTooLow
		}

		now := time.Now()
		if item == nil {
			created = true
			if err := cartRepo.CreateItem(&models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		} else if err := cartRepo.UpdateItemQuantity(item.ID, quantity, now); err != nil {
			return err
		}

		total, err := s.sumItemsTx(tx, cartRepo, cart.ID)
		if err != nil {
			return err
		}
		return cartRepo.Touch(cart.ID, models.NewMoneyFromDecimal(total), now)
	})
	if err != nil {
		return nil, false, err
	}

	cart, err := s.getByIDOrNotFound(cartID)
	if err != nil {
		return nil, false, err
	}
	return cart, created, nil
}

// RemoveItem 从当前购物车删除商品：整行删除，合计金额按剩余明细重算
func (s *CartService) RemoveItem(productID uint) (*models.Cart, error) {
	var cartID uint
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		latest, err := cartRepo.Latest()
		if err != nil {
			return err
		}
		if latest == nil || !latest.IsActive() {
			return ErrCartNotFound
		}
		cart, err := cartRepo.LockByID(latest.ID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		cartID = cart.ID

		item, err := cartRepo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrProductNotInCart
		}
		if err := cartRepo.DeleteItem(item.ID); err != nil {
			return err
		}

		total, err := s.sumItemsTx(tx, cartRepo, cart.ID)
		if err != nil {
			return err
		}
		return cartRepo.Touch(cart.ID, models.NewMoneyFromDecimal(total), time.Now())
	})
	if err != nil {
		return nil, err
	}
	return s.getByIDOrNotFound(cartID)
}

// getByIDOrNotFound 重新读取购物车。两次读之间清理任务可能已删掉这辆车，
// 行消失时返回 ErrCartNotFound 而不是 nil 购物车。
func (s *CartService) getByIDOrNotFound(id uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// BuildView 生成购物车只读视图，明细按加入顺序排列
func (s *CartService) BuildView(cart *models.Cart) CartView {
	view := CartView{
		ID:         cart.ID,
		Products:   make([]CartViewProduct, 0, len(cart.Items)),
		TotalPrice: cart.TotalPrice,
	}
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Products = append(view.Products, CartViewProduct{
			ID:         item.ProductID,
			Name:       item.Product.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.Price,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
		})
	}
	return view
}

// resolveCurrentTx 在事务内解析当前购物车：最新购物车为 active 时加锁复用，
// 否则（不存在或已 abandoned）新建一个空车。abandoned 购物车不会被复活。
func (s *CartService) resolveCurrentTx(cartRepo *repository.GormCartRepository) (*models.Cart, error) {
	latest, err := cartRepo.Latest()
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.IsActive() {
		locked, err := cartRepo.LockByID(latest.ID)
		if err != nil {
			return nil, err
		}
		if locked != nil && locked.IsActive() {
			return locked, nil
		}
	}

	now := time.Now()
	cart := &models.Cart{
		TotalPrice: models.NewMoneyFromDecimal(decimal.Zero),
		Status:     constants.CartStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := cartRepo.Create(cart); err != nil {
		return nil, err
	}
	logger.Infow("cart_created", "cart_id", cart.ID)
	return cart, nil
}

// sumItemsTx 在事务内重读全部明细并求和，而不是在旧合计上打增量补丁
func (s *CartService) sumItemsTx(tx *gorm.DB, cartRepo *repository.GormCartRepository, cartID uint) (decimal.Decimal, error) {
	items, err := cartRepo.ListItems(cartID)
	if err != nil {
		return decimal.Zero, err
	}
	productRepo := s.productRepo.WithTx(tx)
	total := decimal.Zero
	for _, item := range items {
		price := decimal.Zero
		if item.Product != nil {
			price = item.Product.Price.Decimal
		} else {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return decimal.Zero, err
			}
			if product == nil {
				continue
			}
			price = product.Price.Decimal
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// lookupProduct 查询商品，优先走 Redis 缓存（目录只读，短 TTL 足够）
func (s *CartService) lookupProduct(id uint) (*models.Product, error) {
	key := fmt.Sprintf("product:%d", id)
	ctx := context.Background()

	var cached models.Product
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("cart_product_cache_get_failed", "product_id", id, "error", err)
	} else if hit {
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product != nil && s.productCacheTTL > 0 {
		if err := cache.SetJSON(ctx, key, product, s.productCacheTTL); err != nil {
			logger.Warnw("cart_product_cache_set_failed", "product_id", id, "error", err)
		}
	}
	return product, nil
}
