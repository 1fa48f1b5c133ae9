package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠码
type Coupon struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Code              string         `gorm:"uniqueIndex;not null" json:"code"`                              // 优惠码（大写存储）
	Name              string         `gorm:"not null" json:"name"`                                          // 名称
	Type              string         `gorm:"not null" json:"type"`                                          // 类型（percent/fixed/free_shipping）
	Value             Money          `gorm:"type:decimal(20,2);not null" json:"value"`                      // 数值（百分比或固定金额）
	MinOrderAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 使用门槛（0 表示不限制）
	MaxDiscount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`     // 最大优惠金额（0 表示不限制）
	UsageLimit        int            `gorm:"not null;default:0" json:"usage_limit"`                         // 总使用上限（0 表示不限制）
	UsedCount         int            `gorm:"not null;default:0" json:"used_count"`                          // 已使用次数
	PerUserLimit      int            `gorm:"not null;default:0" json:"per_user_limit"`                      // 每人使用上限（0 表示不限制）
	MinTier           string         `gorm:"type:varchar(20);default:''" json:"min_tier"`                   // 最低会员等级（空表示不限制）
	CategoryID        *uint          `gorm:"index" json:"category_id,omitempty"`                            // 限定分类（空表示不限制）
	ScopeProductIDs   string         `gorm:"type:text" json:"scope_product_ids"`                            // 限定商品ID集合（JSON数组，空表示不限制）
	FirstOrderOnly    bool           `gorm:"not null;default:false" json:"first_order_only"`                // 仅限首单
	StackableWithSale bool           `gorm:"not null;default:true" json:"stackable_with_sale"`              // 是否可与活动价同享
	StartsAt          *time.Time     `gorm:"index" json:"starts_at"`                                        // 生效时间
	EndsAt            *time.Time     `gorm:"index" json:"ends_at"`                                          // 失效时间
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`                        // 是否启用
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// ProductScope 解析限定商品ID集合；为空或解析失败时返回 nil（不限制）
func (c *Coupon) ProductScope() []uint {
	if c.ScopeProductIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(c.ScopeProductIDs), &ids); err != nil {
		return nil
	}
	return ids
}
