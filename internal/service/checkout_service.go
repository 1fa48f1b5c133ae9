package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/queue"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNoMaxAttempts = 5

// CheckoutService 下单编排服务。
// 订单落库是唯一的持久化边界：落库失败整单失败；落库之后的优惠核销、
// 活动销量累计、积分入账都是附带效果，失败只记日志不回滚订单。
type CheckoutService struct {
	orderRepo     repository.OrderRepository
	variantRepo   repository.VariantRepository
	customerRepo  repository.CustomerRepository
	campaignRepo  repository.CampaignRepository
	pricing       *PricingService
	coupons       *CouponService
	carts         *CartService
	loyalty       *LoyaltyService
	queueClient   *queue.Client
	orderNoPrefix string
	shippingFee   models.Money
	currency      string
}

// NewCheckoutService 创建下单编排服务
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	variantRepo repository.VariantRepository,
	customerRepo repository.CustomerRepository,
	campaignRepo repository.CampaignRepository,
	pricing *PricingService,
	coupons *CouponService,
	carts *CartService,
	loyalty *LoyaltyService,
	queueClient *queue.Client,
	orderNoPrefix string,
	shippingFee models.Money,
	currency string,
) *CheckoutService {
	if orderNoPrefix == "" {
		orderNoPrefix = "HM"
	}
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &CheckoutService{
		orderRepo:     orderRepo,
		variantRepo:   variantRepo,
		customerRepo:  customerRepo,
		campaignRepo:  campaignRepo,
		pricing:       pricing,
		coupons:       coupons,
		carts:         carts,
		loyalty:       loyalty,
		queueClient:   queueClient,
		orderNoPrefix: orderNoPrefix,
		shippingFee:   shippingFee,
		currency:      currency,
	}
}

// CheckoutItem 下单商品行
type CheckoutItem struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// CheckoutInput 下单输入。CartID 与 Items 二选一，CartID 优先。
type CheckoutInput struct {
	CustomerID uint // 0 表示游客
	CartID     uint
	Items      []CheckoutItem
	CouponCode string

	ContactName  string
	ContactEmail string
	ContactPhone string

	ShippingAddress  string
	ShippingCity     string
	ShippingDistrict string
	ShippingWard     string

	Note          string
	PaymentMethod string
	ClientIP      string
}

// Receipt 下单回执
type Receipt struct {
	OrderID     uint         `json:"order_id"`
	OrderNo     string       `json:"order_no"`
	TotalAmount models.Money `json:"total_amount"`
	Status      string       `json:"status"`
}

// resolvedLine 定价解析后的下单行
type resolvedLine struct {
	item       models.OrderItem
	categoryID uint
	campaign   *models.CampaignItem
}

func validateCheckoutContact(input *CheckoutInput) error {
	input.ContactName = strings.TrimSpace(input.ContactName)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.ContactPhone = strings.TrimSpace(input.ContactPhone)
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	if input.ContactName == "" || input.ContactEmail == "" ||
		input.ContactPhone == "" || input.ShippingAddress == "" {
		return ErrContactRequired
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	for _, m := range constants.SupportedPaymentMethods {
		if m == method {
			input.PaymentMethod = method
			return nil
		}
	}
	return ErrPaymentMethodInvalid
}

// Checkout 执行下单：解析商品行与活动价、校验优惠码、生成订单编号并落库，
// 然后执行核销等附带效果。
func (s *CheckoutService) Checkout(input CheckoutInput) (*Receipt, error) {
	if err := validateCheckoutContact(&input); err != nil {
		return nil, err
	}

	items, couponCode, err := s.collectItems(&input)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrInvalidCheckoutItem
	}
	if input.CouponCode != "" {
		couponCode = input.CouponCode
	}

	now := time.Now().UTC()
	lines, err := s.resolveLines(items, now)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.item.TotalPrice.Decimal)
	}
	subtotalMoney := models.NewMoneyFromDecimal(subtotal)

	var customer *models.Customer
	if input.CustomerID != 0 {
		customer, err = s.customerRepo.GetByID(input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, ErrCustomerNotFound
		}
	}

	discount := models.Money{}
	var couponID *uint
	var coupon *models.Coupon
	if couponCode != "" {
		outcome, err := s.coupons.Validate(ValidateCouponInput{
			Code:        couponCode,
			CartTotal:   subtotalMoney,
			ProductIDs:  lineProductIDs(lines),
			CategoryIDs: lineCategoryIDs(lines),
			Customer:    customer,
			Now:         now,
		})
		if err != nil {
			return nil, err
		}
		if !outcome.Valid {
			return nil, CouponReasonError(outcome.ReasonKey)
		}
		if !outcome.Coupon.StackableWithSale && anyLineOnSale(lines) {
			return nil, ErrCouponNotStackable
		}
		discount = outcome.Amount
		coupon = outcome.Coupon
		id := outcome.CouponID
		couponID = &id
	}

	total := subtotal.Sub(discount.Decimal).Add(s.shippingFee.Decimal)
	if total.IsNegative() {
		total = decimal.Zero
	}

	orderNo, err := s.generateOrderNo(now)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:          orderNo,
		ContactName:      input.ContactName,
		ContactEmail:     input.ContactEmail,
		ContactPhone:     input.ContactPhone,
		ShippingAddress:  input.ShippingAddress,
		ShippingCity:     input.ShippingCity,
		ShippingDistrict: input.ShippingDistrict,
		ShippingWard:     input.ShippingWard,
		Note:             input.Note,
		Status:           constants.OrderStatusPending,
		PaymentStatus:    constants.PaymentStatusPending,
		PaymentMethod:    input.PaymentMethod,
		Currency:         s.currency,
		Subtotal:         subtotalMoney,
		DiscountAmount:   discount,
		ShippingFee:      s.shippingFee,
		TotalAmount:      models.NewMoneyFromDecimal(total),
		CouponID:         couponID,
		ClientIP:         input.ClientIP,
	}
	if input.CustomerID != 0 {
		customerID := input.CustomerID
		order.CustomerID = &customerID
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		orderItems = append(orderItems, line.item)
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, orderItems)
	}); err != nil {
		return nil, err
	}

	s.applySideEffects(order, lines, coupon, discount)
	if input.CartID != 0 {
		s.clearCartAfterCheckout(input.CartID, order.ID)
	}

	return &Receipt{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	}, nil
}

// collectItems 收集下单商品行：优先取购物车，否则取显式商品行（合并重复规格）
func (s *CheckoutService) collectItems(input *CheckoutInput) ([]CheckoutItem, string, error) {
	if input.CartID != 0 {
		cart, err := s.carts.GetCart(input.CartID)
		if err != nil {
			return nil, "", err
		}
		items := make([]CheckoutItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			items = append(items, CheckoutItem{VariantID: line.VariantID, Quantity: line.Quantity})
		}
		return items, cart.CouponCode, nil
	}

	merged := make([]CheckoutItem, 0, len(input.Items))
	index := make(map[uint]int, len(input.Items))
	for _, item := range input.Items {
		if item.VariantID == 0 || item.Quantity <= 0 {
			return nil, "", ErrInvalidCheckoutItem
		}
		if i, ok := index[item.VariantID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.VariantID] = len(merged)
		merged = append(merged, item)
	}
	return merged, "", nil
}

// resolveLines 逐行解析商品与活动价。任何一行的商品或规格不可售即整单拒绝。
func (s *CheckoutService) resolveLines(items []CheckoutItem, now time.Time) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		variant, err := s.variantRepo.GetWithProduct(item.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.IsActive {
			return nil, ErrVariantInvalid
		}
		if variant.Product == nil || !variant.Product.IsActive {
			return nil, ErrProductNotAvailable
		}

		resolved, err := s.pricing.ResolveSalePrice(variant.ProductID, variant.ID, variant.Price, now)
		if err != nil {
			return nil, err
		}

		totalPrice := resolved.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		orderItem := models.OrderItem{
			ProductID:      variant.ProductID,
			VariantID:      variant.ID,
			ProductName:    variant.Product.Name,
			VariantName:    variant.Name,
			SKU:            variant.SKU,
			UnitPrice:      resolved.UnitPrice,
			CompareAtPrice: resolved.CompareAtPrice,
			Quantity:       item.Quantity,
			TotalPrice:     models.NewMoneyFromDecimal(totalPrice),
		}
		if len(variant.Product.Images) > 0 {
			orderItem.ImageURL = variant.Product.Images[0]
		}
		if resolved.OnSale() {
			campaignID := resolved.CampaignItem.CampaignID
			orderItem.CampaignID = &campaignID
		}
		lines = append(lines, resolvedLine{
			item:       orderItem,
			categoryID: variant.Product.CategoryID,
			campaign:   resolved.CampaignItem,
		})
	}
	return lines, nil
}

// applySideEffects 执行订单落库后的附带效果，失败只告警不影响订单
func (s *CheckoutService) applySideEffects(order *models.Order, lines []resolvedLine, coupon *models.Coupon, discount models.Money) {
	if coupon != nil {
		if err := s.coupons.Redeem(coupon.ID, order.CustomerID, order.ID, coupon.Code, discount); err != nil {
			logger.Warnw("checkout_coupon_redeem_failed",
				"order_id", order.ID,
				"coupon_code", coupon.Code,
				"error", err.Error(),
			)
		}
	}

	for _, line := range lines {
		if line.campaign == nil {
			continue
		}
		if err := s.campaignRepo.IncrementSoldQuantity(line.campaign.ID, line.item.Quantity); err != nil {
			logger.Warnw("checkout_campaign_sold_increment_failed",
				"order_id", order.ID,
				"campaign_item_id", line.campaign.ID,
				"error", err.Error(),
			)
		}
	}

	if order.CustomerID != nil && *order.CustomerID != 0 && s.loyalty != nil {
		if err := s.loyalty.AccrueFromOrder(order.ID); err != nil {
			logger.Warnw("checkout_loyalty_accrue_failed",
				"order_id", order.ID,
				"customer_id", *order.CustomerID,
				"error", err.Error(),
			)
			if err := s.queueClient.EnqueueOrderLoyaltyAccrue(queue.OrderLoyaltyAccruePayload{OrderID: order.ID}); err != nil {
				logger.Warnw("checkout_loyalty_enqueue_failed",
					"order_id", order.ID,
					"error", err.Error(),
				)
			}
		}
	}
}

// clearCartAfterCheckout 下单成功后清空来源购物车（失败只告警）
func (s *CheckoutService) clearCartAfterCheckout(cartID uint, orderID uint) {
	if err := s.carts.Clear(cartID); err != nil {
		logger.Warnw("checkout_cart_clear_failed",
			"cart_id", cartID,
			"order_id", orderID,
			"error", err.Error(),
		)
	}
}

// generateOrderNo 生成形如 HM-20260828-0417 的订单编号，冲突时重试
func (s *CheckoutService) generateOrderNo(now time.Time) (string, error) {
	for attempt := 0; attempt < orderNoMaxAttempts; attempt++ {
		orderNo := fmt.Sprintf("%s-%s-%s", s.orderNoPrefix, now.Format("20060102"), randNumeric(4))
		exists, err := s.orderRepo.ExistsOrderNo(orderNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return orderNo, nil
		}
	}
	return "", ErrOrderNoExhausted
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func lineProductIDs(lines []resolvedLine) []uint {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.item.ProductID]; ok {
			continue
		}
		seen[line.item.ProductID] = struct{}{}
		ids = append(ids, line.item.ProductID)
	}
	return ids
}

func lineCategoryIDs(lines []resolvedLine) []uint {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.categoryID]; ok {
			continue
		}
		seen[line.categoryID] = struct{}{}
		ids = append(ids, line.categoryID)
	}
	return ids
}

func anyLineOnSale(lines []resolvedLine) bool {
	for _, line := range lines {
		if line.campaign != nil {
			return true
		}
	}
	return false
}
