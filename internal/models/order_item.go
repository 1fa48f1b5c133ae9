package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（下单时刻的商品快照，之后不随商品变化）
type OrderItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                                // 订单ID
	ProductID      uint           `gorm:"index;not null" json:"product_id"`                              // 商品ID
	VariantID      uint           `gorm:"index;not null" json:"variant_id"`                              // 规格ID
	ProductName    string         `gorm:"not null" json:"product_name"`                                  // 商品名称快照
	VariantName    string         `gorm:"not null" json:"variant_name"`                                  // 规格描述快照
	SKU            string         `gorm:"type:varchar(64)" json:"sku"`                                   // SKU快照
	ImageURL       string         `gorm:"type:varchar(500)" json:"image_url"`                            // 商品图快照
	UnitPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 成交单价
	CompareAtPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"compare_at_price"` // 划线价快照（0 表示无）
	Quantity       int            `gorm:"not null" json:"quantity"`                                      // 数量
	TotalPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`      // 小计
	CampaignID     *uint          `gorm:"index" json:"campaign_id,omitempty"`                            // 命中的活动ID
	CampaignName   string         `gorm:"-" json:"campaign_name,omitempty"`                              // 活动名称（仅展示）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
