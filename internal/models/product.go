package models

import (
	"time"
)

// Product 商品表（购物车只读引用）
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"not null;index" json:"name"`                         // 名称
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`                // 是否上架
	CreatedAt time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
