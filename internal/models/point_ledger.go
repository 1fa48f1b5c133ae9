package models

import (
	"time"
)

// PointLedger 积分流水表（只追加，不修改不删除）
type PointLedger struct {
	ID          uint      `gorm:"primarykey" json:"id"`                  // 主键
	CustomerID  uint      `gorm:"index;not null" json:"customer_id"`     // 客户ID
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`       // 关联订单ID
	PointsDelta int64     `gorm:"not null" json:"points_delta"`          // 积分变动量
	Balance     int64     `gorm:"not null" json:"balance"`               // 变动后余额
	Note        string    `gorm:"type:varchar(200)" json:"note"`         // 备注
	CreatedAt   time.Time `gorm:"index" json:"created_at"`               // 创建时间
}

// TableName 指定表名
func (PointLedger) TableName() string {
	return "point_ledgers"
}
