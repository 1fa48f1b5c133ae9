package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/provider"
	"github.com/haimart-next/internal/queue"
	"github.com/haimart-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderLoyaltyAccrue, c.handleOrderLoyaltyAccrue)
}

// handleOrderLoyaltyAccrue 补入账下单时未能落下的订单积分。
// 入账本身按订单幂等，重复投递无副作用。
func (c *Consumer) handleOrderLoyaltyAccrue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_loyalty_accrue_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderLoyaltyAccruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_loyalty_accrue_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_loyalty_accrue_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.LoyaltyService == nil {
		logger.Warnw("worker_order_loyalty_accrue_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.LoyaltyService.AccrueFromOrder(payload.OrderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_order_loyalty_accrue_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrCustomerNotFound):
			logger.Debugw("worker_order_loyalty_accrue_skip_customer_not_found", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_order_loyalty_accrue_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	return nil
}
