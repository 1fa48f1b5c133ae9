package service

import (
	"strings"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠码服务
type CouponService struct {
	couponRepo     repository.CouponRepository
	redemptionRepo repository.CouponRedemptionRepository
}

// NewCouponService 创建优惠码服务
func NewCouponService(couponRepo repository.CouponRepository, redemptionRepo repository.CouponRedemptionRepository) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
	}
}

// 校验失败原因键（与 i18n 消息表对应）
const (
	ReasonCouponNotFound       = "error.coupon_not_found"
	ReasonCouponInactive       = "error.coupon_inactive"
	ReasonCouponNotStarted     = "error.coupon_not_started"
	ReasonCouponExpired        = "error.coupon_expired"
	ReasonCouponUsageLimit     = "error.coupon_usage_limit"
	ReasonCouponMinAmount      = "error.coupon_min_amount"
	ReasonCouponTierRequired   = "error.coupon_tier_required"
	ReasonCouponPerUserLimit   = "error.coupon_per_user_limit"
	ReasonCouponScopeCategory  = "error.coupon_scope_category"
	ReasonCouponScopeProduct   = "error.coupon_scope_product"
	ReasonCouponFirstOrderOnly = "error.coupon_first_order_only"
)

var couponReasonErrors = map[string]error{
	ReasonCouponNotFound:       ErrCouponNotFound,
	ReasonCouponInactive:       ErrCouponInactive,
	ReasonCouponNotStarted:     ErrCouponNotStarted,
	ReasonCouponExpired:        ErrCouponExpired,
	ReasonCouponUsageLimit:     ErrCouponUsageLimit,
	ReasonCouponMinAmount:      ErrCouponMinAmount,
	ReasonCouponTierRequired:   ErrCouponTierRequired,
	ReasonCouponPerUserLimit:   ErrCouponPerUserLimit,
	ReasonCouponScopeCategory:  ErrCouponScopeCategory,
	ReasonCouponScopeProduct:   ErrCouponScopeProduct,
	ReasonCouponFirstOrderOnly: ErrCouponFirstOrderOnly,
}

// CouponReasonError 将校验失败原因键转换为对应的哨兵错误
func CouponReasonError(reasonKey string) error {
	if err, ok := couponReasonErrors[reasonKey]; ok {
		return err
	}
	return ErrCouponInvalid
}

// ValidateCouponInput 优惠码校验输入
type ValidateCouponInput struct {
	Code        string
	CartTotal   models.Money
	ProductIDs  []uint
	CategoryIDs []uint
	Customer    *models.Customer // 游客为 nil，依赖买家身份的检查跳过
	Now         time.Time
}

// ValidationOutcome 优惠码校验结果。码无效不是错误：Valid=false 并携带原因键。
type ValidationOutcome struct {
	Valid     bool           `json:"valid"`
	ReasonKey string         `json:"reason_key,omitempty"`
	CouponID  uint           `json:"coupon_id,omitempty"`
	Type      string         `json:"type,omitempty"`
	Amount    models.Money   `json:"amount"`
	Coupon    *models.Coupon `json:"-"`
}

func invalidOutcome(coupon *models.Coupon, reasonKey string) *ValidationOutcome {
	outcome := &ValidationOutcome{ReasonKey: reasonKey, Coupon: coupon}
	if coupon != nil {
		outcome.CouponID = coupon.ID
		outcome.Type = coupon.Type
	}
	return outcome
}

// Validate 按固定顺序逐项校验优惠码，任一失败立即返回对应原因。
// 本方法只读，不产生任何副作用；核销见 Redeem。
func (s *CouponService) Validate(input ValidateCouponInput) (*ValidationOutcome, error) {
	code := NormalizeCouponCode(input.Code)
	if code == "" {
		return invalidOutcome(nil, ReasonCouponNotFound), nil
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return invalidOutcome(nil, ReasonCouponNotFound), nil
	}
	if !coupon.IsActive {
		return invalidOutcome(coupon, ReasonCouponInactive), nil
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return invalidOutcome(coupon, ReasonCouponNotStarted), nil
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return invalidOutcome(coupon, ReasonCouponExpired), nil
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return invalidOutcome(coupon, ReasonCouponUsageLimit), nil
	}
	if coupon.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		input.CartTotal.Decimal.LessThan(coupon.MinOrderAmount.Decimal) {
		return invalidOutcome(coupon, ReasonCouponMinAmount), nil
	}
	if coupon.MinTier != "" {
		if input.Customer == nil ||
			constants.TierRank(input.Customer.Tier) < constants.TierRank(coupon.MinTier) {
			return invalidOutcome(coupon, ReasonCouponTierRequired), nil
		}
	}
	if coupon.PerUserLimit > 0 && input.Customer != nil {
		count, err := s.redemptionRepo.CountByCustomer(coupon.ID, input.Customer.ID)
		if err != nil {
			return nil, err
		}
		if int(count) >= coupon.PerUserLimit {
			return invalidOutcome(coupon, ReasonCouponPerUserLimit), nil
		}
	}
	if coupon.FirstOrderOnly && input.Customer != nil && input.Customer.OrderCount > 0 {
		return invalidOutcome(coupon, ReasonCouponFirstOrderOnly), nil
	}
	// 范围校验仅在双方都有值时生效：纯查询可以不带分类/商品上下文
	if coupon.CategoryID != nil && len(input.CategoryIDs) > 0 &&
		!containsID(input.CategoryIDs, *coupon.CategoryID) {
		return invalidOutcome(coupon, ReasonCouponScopeCategory), nil
	}
	if scope := coupon.ProductScope(); len(scope) > 0 && len(input.ProductIDs) > 0 &&
		!intersects(input.ProductIDs, scope) {
		return invalidOutcome(coupon, ReasonCouponScopeProduct), nil
	}

	amount := calculateCouponAmount(coupon, input.CartTotal)
	return &ValidationOutcome{
		Valid:    true,
		CouponID: coupon.ID,
		Type:     coupon.Type,
		Amount:   amount,
		Coupon:   coupon,
	}, nil
}

// Redeem 核销优惠码：原子累加使用次数（带上限保护）并写入核销记录。
// 必须在订单落库之后调用；两步在同一事务内完成。
func (s *CouponService) Redeem(couponID uint, customerID *uint, orderID uint, code string, amount models.Money) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.couponRepo.WithTx(tx).IncrementUsedCount(couponID, 1)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCouponUsageLimit
		}
		return s.redemptionRepo.WithTx(tx).Create(&models.CouponRedemption{
			CouponID:       couponID,
			CustomerID:     customerID,
			OrderID:        orderID,
			Code:           code,
			DiscountAmount: amount,
		})
	})
}

// NormalizeCouponCode 归一化优惠码：去空白并统一大写
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// calculateCouponAmount 计算优惠金额：百分比按购物车总额折算，固定金额与
// 免运费直接取面值；结果依次收敛到最大优惠上限与购物车总额。
func calculateCouponAmount(coupon *models.Coupon, cartTotal models.Money) models.Money {
	var amount decimal.Decimal
	switch coupon.Type {
	case constants.CouponTypePercent:
		amount = cartTotal.Decimal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100))
	case constants.CouponTypeFixed, constants.CouponTypeFreeShipping:
		amount = coupon.Value.Decimal
	default:
		amount = decimal.Zero
	}
	if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && amount.GreaterThan(coupon.MaxDiscount.Decimal) {
		amount = coupon.MaxDiscount.Decimal
	}
	if amount.GreaterThan(cartTotal.Decimal) {
		amount = cartTotal.Decimal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(amount)
}

func containsID(ids []uint, target uint) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func intersects(a, b []uint) bool {
	set := make(map[uint]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
