package models

import (
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// Cart 购物车（游客以 session_key 持有，登录客户以 customer_id 持有，二者取其一）
type Cart struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	SessionKey     string         `gorm:"index;type:varchar(64)" json:"session_key,omitempty"`          // 游客会话标识
	CustomerID     *uint          `gorm:"index" json:"customer_id,omitempty"`                           // 客户ID
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 已应用优惠码ID
	CouponCode     string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 已应用优惠码
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠码优惠金额
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at"`                                      // 过期时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Lines []CartLine `gorm:"foreignKey:CartID" json:"lines,omitempty"` // 购物车行
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// Subtotal 各行小计之和
func (c *Cart) Subtotal() Money {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return NewMoneyFromDecimal(sum)
}

// Total 应付金额（小计减优惠，不含运费，最低为 0）
func (c *Cart) Total() Money {
	total := c.Subtotal().Sub(c.DiscountAmount.Decimal)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return NewMoneyFromDecimal(total)
}

// CartLine 购物车行（同一购物车内每个规格至多一行）。
// 行删除是物理删除：软删除的墓碑会占住 (cart_id, variant_id) 唯一索引，
// 导致同规格无法再次加入。
type CartLine struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                          // 主键
	CartID         uint      `gorm:"not null;uniqueIndex:idx_cart_line_variant" json:"cart_id"`     // 购物车ID
	ProductID      uint      `gorm:"index;not null" json:"product_id"`                              // 商品ID
	VariantID      uint      `gorm:"not null;uniqueIndex:idx_cart_line_variant" json:"variant_id"`  // 规格ID
	ProductName    string    `gorm:"not null" json:"product_name"`                                  // 商品名称快照
	VariantName    string    `gorm:"not null" json:"variant_name"`                                  // 规格描述快照
	SKU            string    `gorm:"type:varchar(64)" json:"sku"`                                   // SKU快照
	ImageURL       string    `gorm:"type:varchar(500)" json:"image_url"`                            // 商品图快照
	UnitPrice      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 当前单价（已含活动价）
	CompareAtPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"compare_at_price"` // 划线价（0 表示无）
	Quantity       int       `gorm:"not null" json:"quantity"`                                      // 数量
	InStock        bool      `gorm:"not null;default:true" json:"in_stock"`                         // 库存状态快照
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
