package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	CustomerID       *uint          `gorm:"index" json:"customer_id,omitempty"`                           // 客户ID（游客订单为空）
	ContactName      string         `gorm:"not null" json:"contact_name"`                                 // 收件人姓名
	ContactEmail     string         `gorm:"index;not null" json:"contact_email"`                          // 联系邮箱
	ContactPhone     string         `gorm:"not null" json:"contact_phone"`                                // 联系电话
	ShippingAddress  string         `gorm:"not null" json:"shipping_address"`                             // 收货地址
	ShippingCity     string         `gorm:"type:varchar(100)" json:"shipping_city"`                       // 省/市
	ShippingDistrict string         `gorm:"type:varchar(100)" json:"shipping_district"`                   // 郡/县
	ShippingWard     string         `gorm:"type:varchar(100)" json:"shipping_ward"`                       // 坊/社
	Note             string         `gorm:"type:text" json:"note"`                                        // 买家备注
	Status           string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentStatus    string         `gorm:"index;not null" json:"payment_status"`                         // 支付状态
	PaymentMethod    string         `gorm:"not null" json:"payment_method"`                               // 支付方式
	Currency         string         `gorm:"not null" json:"currency"`                                     // 币种
	Subtotal         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	DiscountAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠码优惠金额
	ShippingFee      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`    // 运费
	TotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	CouponID         *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠码ID
	CouponCode       string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 优惠码快照
	CancelReason     string         `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`             // 取消原因
	ClientIP         string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	PaidAt           *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	ShippedAt        *time.Time     `gorm:"index" json:"shipped_at"`                                      // 发货时间
	DeliveredAt      *time.Time     `gorm:"index" json:"delivered_at"`                                    // 签收时间
	CancelledAt      *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
