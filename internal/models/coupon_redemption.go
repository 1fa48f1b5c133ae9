package models

import (
	"time"

	"gorm.io/gorm"
)

// CouponRedemption 优惠码核销记录
type CouponRedemption struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	CouponID       uint           `gorm:"index;not null" json:"coupon_id"`                              // 优惠码ID
	CustomerID     *uint          `gorm:"index" json:"customer_id,omitempty"`                           // 客户ID（游客订单为空）
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                               // 订单ID
	Code           string         `gorm:"not null" json:"code"`                                         // 优惠码快照
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
