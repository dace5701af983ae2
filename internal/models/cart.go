package models

import (
	"time"

	"github.com/cartkeeper/internal/constants"
)

// Cart 购物车
// TotalPrice 始终等于所有购物车项 quantity × product.price 之和。
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                           // 主键
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`       // 合计金额
	Status     string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 状态（active/abandoned）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                        // 最近活动时间

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// IsActive 判断购物车是否可继续使用
func (c *Cart) IsActive() bool {
	return c != nil && c.Status == constants.CartStatusActive
}
