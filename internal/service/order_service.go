package service

import (
	"strings"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"
)

// OrderService 订单生命周期服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单生命周期服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// StatusChange 状态流转结果
type StatusChange struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Order *models.Order `json:"order"`
}

// UpdateStatus 推进订单状态。不合法的流转整体拒绝，不产生任何写入。
// 时间戳只在首次进入对应状态时落下；货到付款订单签收即视为已收款。
func (s *OrderService) UpdateStatus(orderID uint, target string, reason string) (*StatusChange, error) {
	target = strings.ToLower(strings.TrimSpace(target))

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch target {
	case constants.OrderStatusCancelled:
		if order.CancelledAt == nil {
			updates["cancelled_at"] = &now
		}
		if reason != "" {
			updates["cancel_reason"] = reason
		}
	case constants.OrderStatusShipped:
		if order.ShippedAt == nil {
			updates["shipped_at"] = &now
		}
	case constants.OrderStatusDelivered:
		if order.DeliveredAt == nil {
			updates["delivered_at"] = &now
		}
		if order.PaymentMethod == constants.PaymentMethodCOD &&
			order.PaymentStatus != constants.PaymentStatusPaid {
			updates["payment_status"] = constants.PaymentStatusPaid
			if order.PaidAt == nil {
				updates["paid_at"] = &now
			}
		}
	}

	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	return &StatusChange{From: order.Status, To: target, Order: updated}, nil
}

// MarkPaid 标记订单已收款（线下转账对账后调用）
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusReturned {
		return nil, ErrOrderStatusInvalid
	}
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return order, nil
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"updated_at":     now,
	}
	if order.PaidAt == nil {
		updates["paid_at"] = &now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, order.Status, updates); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

// Get 获取订单详情
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForCustomer 获取客户自己的订单，越权访问视同不存在
func (s *OrderService) GetForCustomer(orderID, customerID uint) (*models.Order, error) {
	if customerID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByCustomer 获取客户订单列表
func (s *OrderService) ListByCustomer(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByCustomer(filter)
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}
