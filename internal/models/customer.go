package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 客户表（会员等级只升不降）
type Customer struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`                         // 邮箱
	Name        string         `gorm:"default:''" json:"name"`                                    // 姓名
	Phone       string         `gorm:"type:varchar(32)" json:"phone"`                             // 电话
	Locale      string         `gorm:"default:'vi-VN'" json:"locale"`                             // 语言偏好
	Tier        string         `gorm:"type:varchar(20);not null;default:'standard'" json:"tier"`  // 会员等级
	Points      int64          `gorm:"not null;default:0" json:"points"`                          // 积分余额
	TotalSpent  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_spent"`  // 累计消费金额
	OrderCount  int            `gorm:"not null;default:0" json:"order_count"`                     // 累计订单数
	LastOrderAt *time.Time     `gorm:"index" json:"last_order_at"`                                // 最近下单时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
