package repository

import (
	"errors"
	"time"

	"github.com/cartkeeper/internal/constants"
	"github.com/cartkeeper/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	Latest() (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	LockByID(id uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	Touch(id uint, total models.Money, now time.Time) error
	GetItem(cartID, productID uint) (*models.CartItem, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int, now time.Time) error
	DeleteItem(itemID uint) error
	MarkAbandonedBefore(cutoff time.Time) (int64, error)
	DeleteUpdatedBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Latest 获取最新创建的购物车（即「当前购物车」候选）
func (r *GormCartRepository) Latest() (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Order("id desc").First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetByID 获取购物车及其购物车项（按加入顺序）
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id asc")
	}).Preload("Items.Product").First(&cart, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockByID 以行锁读取购物车，用于写事务内串行化同一购物车的并发修改
func (r *GormCartRepository) LockByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	return r.db.Create(cart).Error
}

// Touch 写入重算后的合计金额并刷新活动时间
func (r *GormCartRepository) Touch(id uint, total models.Money, now time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_price": total,
		"updated_at":  now,
	}).Error
}

// GetItem 获取购物车中指定商品的购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems 获取购物车全部购物车项（含商品，按加入顺序）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int, now time.Time) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": now,
	}).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// MarkAbandonedBefore 将截止时间前无活动的 active 购物车批量标记为 abandoned
func (r *GormCartRepository) MarkAbandonedBefore(cutoff time.Time) (int64, error) {
	// UpdateColumn 跳过时间戳自动刷新：标记 abandoned 不算一次活动，
	// 否则会把保留期的起点往后推
	result := r.db.Model(&models.Cart{}).
		Where("status = ? AND updated_at < ?", constants.CartStatusActive, cutoff).
		UpdateColumn("status", constants.CartStatusAbandoned)
	return result.RowsAffected, result.Error
}

// DeleteUpdatedBefore 删除截止时间前无活动的购物车及其全部购物车项
func (r *GormCartRepository) DeleteUpdatedBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Cart{}).Where("updated_at < ?", cutoff).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Cart{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
