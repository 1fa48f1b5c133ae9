package service

import (
	"fmt"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoyaltyService 会员积分服务
type LoyaltyService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	pointsUnit   decimal.Decimal
	// thresholds 各等级的累计消费门槛，缺省等级视为不可达
	thresholds map[string]models.Money
}

// NewLoyaltyService 创建会员积分服务。pointsUnit 为每积 1 分所需消费金额，
// 零值回退到 10000。
func NewLoyaltyService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository, pointsUnit int64, thresholds map[string]models.Money) *LoyaltyService {
	if pointsUnit <= 0 {
		pointsUnit = 10000
	}
	return &LoyaltyService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		pointsUnit:   decimal.NewFromInt(pointsUnit),
		thresholds:   thresholds,
	}
}

// AccrueFromOrder 按订单入账积分与消费统计。
// 同一订单只入账一次（以积分流水为幂等标记），可安全重放。
// 等级只升不降：累计消费达标才晋级，已有等级不会因门槛调整回落。
func (s *LoyaltyService) AccrueFromOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.CustomerID == nil || *order.CustomerID == 0 {
		return nil
	}
	customerID := *order.CustomerID

	return models.DB.Transaction(func(tx *gorm.DB) error {
		repoTx := s.customerRepo.WithTx(tx)

		customer, err := repoTx.GetByIDForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		count, err := repoTx.CountLedgerByOrder(customerID, orderID)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		points := order.TotalAmount.Decimal.Div(s.pointsUnit).Floor().IntPart()
		newPoints := customer.Points + points
		newTotalSpent := models.NewMoneyFromDecimal(customer.TotalSpent.Decimal.Add(order.TotalAmount.Decimal))

		tier := customer.Tier
		if candidate := s.tierFor(newTotalSpent); constants.TierRank(candidate) > constants.TierRank(tier) {
			tier = candidate
		}

		now := time.Now().UTC()
		if err := repoTx.UpdateLoyalty(customerID, map[string]interface{}{
			"points":        newPoints,
			"total_spent":   newTotalSpent,
			"order_count":   gorm.Expr("order_count + 1"),
			"last_order_at": &now,
			"tier":          tier,
		}); err != nil {
			return err
		}

		return repoTx.CreateLedgerEntry(&models.PointLedger{
			CustomerID:  customerID,
			OrderID:     &orderID,
			PointsDelta: points,
			Balance:     newPoints,
			Note:        fmt.Sprintf("订单 %s 消费积分", order.OrderNo),
		})
	})
}

// tierFor 根据累计消费返回可达的最高等级
func (s *LoyaltyService) tierFor(totalSpent models.Money) string {
	result := constants.TierStandard
	for _, tier := range constants.TierLadder {
		threshold, ok := s.thresholds[tier]
		if !ok {
			continue
		}
		if totalSpent.Decimal.GreaterThanOrEqual(threshold.Decimal) {
			result = tier
		}
	}
	return result
}
