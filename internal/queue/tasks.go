package queue

import (
	"encoding/json"

	"github.com/haimart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderLoyaltyAccrue 订单积分补入账任务
	TaskOrderLoyaltyAccrue = constants.TaskOrderLoyaltyAccrue
)

// OrderLoyaltyAccruePayload 积分补入账任务载荷
type OrderLoyaltyAccruePayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderLoyaltyAccrueTask 创建积分补入账任务
func NewOrderLoyaltyAccrueTask(payload OrderLoyaltyAccruePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderLoyaltyAccrue, body), nil
}
