package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Campaign{},
		&models.CampaignItem{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
		&models.Customer{},
		&models.PointLedger{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	campaignRepo := repository.NewCampaignRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	pricing := NewPricingService(campaignRepo)
	coupons := NewCouponService(repository.NewCouponRepository(db), repository.NewCouponRedemptionRepository(db))
	carts := NewCartService(repository.NewCartRepository(db), variantRepo, customerRepo, pricing, coupons, 72)
	loyalty := NewLoyaltyService(customerRepo, orderRepo, 10000, map[string]models.Money{
		constants.TierSilver:  models.NewMoneyFromDecimal(decimal.NewFromInt(1000000)),
		constants.TierGold:    models.NewMoneyFromDecimal(decimal.NewFromInt(5000000)),
		constants.TierDiamond: models.NewMoneyFromDecimal(decimal.NewFromInt(20000000)),
	})
	svc := NewCheckoutService(
		orderRepo, variantRepo, customerRepo, campaignRepo,
		pricing, coupons, carts, loyalty,
		nil, "HM", money(t, 30000), "VND",
	)
	return svc, carts, db
}

func validCheckoutInput(t *testing.T, items []CheckoutItem) CheckoutInput {
	t.Helper()
	return CheckoutInput{
		Items:           items,
		ContactName:     "Trần Thị Bích",
		ContactEmail:    "bich@example.com",
		ContactPhone:    "0912345678",
		ShippingAddress: "45 Nguyễn Huệ",
		ShippingCity:    "Hồ Chí Minh",
		PaymentMethod:   constants.PaymentMethodCOD,
	}
}

func TestCheckoutHappyPathWithCampaignAndCoupon(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "dien-thoai-x", 100000)
	now := time.Now().UTC()
	campaign := createTestCampaign(t, db, "checkout-flash", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: variant.ProductID, SalePrice: money(t, 80000), OriginalPrice: money(t, 100000)},
	})
	createTestCoupon(t, db, &models.Coupon{
		Code: "SUMMER10", Type: constants.CouponTypePercent,
		Value: money(t, 10), StackableWithSale: true, IsActive: true,
	})
	customer := &models.Customer{Email: "bich@example.com", Name: "Trần Thị Bích", Tier: constants.TierStandard}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	input.CustomerID = customer.ID
	input.CouponCode = "SUMMER10"

	receipt, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	// 80000 活动价 - 8000 折扣 + 30000 运费
	if !receipt.TotalAmount.Decimal.Equal(decimal.NewFromInt(102000)) {
		t.Fatalf("total want 102000 got %s", receipt.TotalAmount.Decimal)
	}
	if !strings.HasPrefix(receipt.OrderNo, "HM-") {
		t.Fatalf("order no want HM- prefix got %s", receipt.OrderNo)
	}
	if receipt.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", receipt.Status)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, receipt.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items want 1 got %d", len(order.Items))
	}
	if !order.Items[0].UnitPrice.Decimal.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("unit price want sale 80000 got %s", order.Items[0].UnitPrice.Decimal)
	}
	if order.Items[0].CampaignID == nil || *order.Items[0].CampaignID != campaign.ID {
		t.Fatalf("order item should reference campaign: %+v", order.Items[0])
	}
	if order.CouponCode != "SUMMER10" || !order.DiscountAmount.Decimal.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("coupon snapshot wrong: %s %s", order.CouponCode, order.DiscountAmount.Decimal)
	}

	// 附带效果：核销、销量、积分
	var coupon models.Coupon
	if err := db.Where("code = ?", "SUMMER10").First(&coupon).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if coupon.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", coupon.UsedCount)
	}
	var redemptions int64
	if err := db.Model(&models.CouponRedemption{}).Where("order_id = ?", order.ID).Count(&redemptions).Error; err != nil {
		t.Fatalf("count redemptions failed: %v", err)
	}
	if redemptions != 1 {
		t.Fatalf("redemption rows want 1 got %d", redemptions)
	}
	var item models.CampaignItem
	if err := db.Where("campaign_id = ?", campaign.ID).First(&item).Error; err != nil {
		t.Fatalf("load campaign item failed: %v", err)
	}
	if item.SoldQuantity != 1 {
		t.Fatalf("sold quantity want 1 got %d", item.SoldQuantity)
	}
	var reloaded models.Customer
	if err := db.First(&reloaded, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if reloaded.Points != 10 {
		t.Fatalf("points want 10 got %d", reloaded.Points)
	}
	if reloaded.OrderCount != 1 {
		t.Fatalf("order count want 1 got %d", reloaded.OrderCount)
	}
}

func TestCheckoutValidationRejections(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "quat-mini", 150000)
	items := []CheckoutItem{{VariantID: variant.ID, Quantity: 1}}

	input := validCheckoutInput(t, items)
	input.ContactPhone = "   "
	if _, err := svc.Checkout(input); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("expected contact required, got %v", err)
	}

	input = validCheckoutInput(t, items)
	input.PaymentMethod = "paypal"
	if _, err := svc.Checkout(input); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("expected payment method invalid, got %v", err)
	}

	input = validCheckoutInput(t, nil)
	if _, err := svc.Checkout(input); !errors.Is(err, ErrInvalidCheckoutItem) {
		t.Fatalf("expected invalid item for empty order, got %v", err)
	}

	input = validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 0}})
	if _, err := svc.Checkout(input); !errors.Is(err, ErrInvalidCheckoutItem) {
		t.Fatalf("expected invalid item for zero quantity, got %v", err)
	}
}

func TestCheckoutInactiveVariantRejected(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "ban-phim", 900000)
	if err := db.Model(&models.ProductVariant{}).Where("id = ?", variant.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate variant failed: %v", err)
	}

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	if _, err := svc.Checkout(input); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant invalid, got %v", err)
	}

	if err := db.Model(&models.ProductVariant{}).Where("id = ?", variant.ID).Update("is_active", true).Error; err != nil {
		t.Fatalf("reactivate variant failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", variant.ProductID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	if _, err := svc.Checkout(input); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected product not available, got %v", err)
	}
}

func TestCheckoutCouponNotStackableWithSale(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "loa-bluetooth", 100000)
	now := time.Now().UTC()
	createTestCampaign(t, db, "no-stack", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: variant.ProductID, SalePrice: money(t, 80000)},
	})
	createTestCoupon(t, db, &models.Coupon{
		Code: "NOSTACK", Type: constants.CouponTypeFixed,
		Value: money(t, 20000), StackableWithSale: false, IsActive: true,
	})

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	input.CouponCode = "NOSTACK"
	if _, err := svc.Checkout(input); !errors.Is(err, ErrCouponNotStackable) {
		t.Fatalf("expected not stackable, got %v", err)
	}
}

func TestCheckoutCouponMinAmountRejected(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "coc-su", 100000)
	createTestCoupon(t, db, &models.Coupon{
		Code: "BIG500", Type: constants.CouponTypeFixed,
		Value: money(t, 50000), MinOrderAmount: money(t, 500000),
		StackableWithSale: true, IsActive: true,
	})

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	input.CouponCode = "BIG500"
	if _, err := svc.Checkout(input); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected min amount, got %v", err)
	}
}

func TestCheckoutMergesDuplicateItems(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "tat-vo", 50000)

	input := validCheckoutInput(t, []CheckoutItem{
		{VariantID: variant.ID, Quantity: 1},
		{VariantID: variant.ID, Quantity: 2},
	})
	receipt, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, receipt.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("duplicate variant should merge into one line of 3: %+v", order.Items)
	}
	// 3 × 50000 + 30000 运费
	if !receipt.TotalAmount.Decimal.Equal(decimal.NewFromInt(180000)) {
		t.Fatalf("total want 180000 got %s", receipt.TotalAmount.Decimal)
	}
}

func TestCheckoutFromCartClearsCart(t *testing.T) {
	svc, carts, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "am-sieu-toc", 600000)
	createTestCoupon(t, db, &models.Coupon{
		Code: "CART50", Type: constants.CouponTypeFixed,
		Value: money(t, 50000), StackableWithSale: true, IsActive: true,
	})

	cart, err := carts.CreateCart(nil)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := carts.AddLine(cart.ID, variant.ID, 1); err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	if _, err := carts.ApplyCoupon(cart.ID, "CART50"); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}

	input := validCheckoutInput(t, nil)
	input.CartID = cart.ID
	receipt, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	// 600000 - 50000 + 30000 运费，购物车上的优惠码随单生效
	if !receipt.TotalAmount.Decimal.Equal(decimal.NewFromInt(580000)) {
		t.Fatalf("total want 580000 got %s", receipt.TotalAmount.Decimal)
	}

	cleared, err := carts.GetCart(cart.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cleared.Lines) != 0 || cleared.CouponCode != "" {
		t.Fatalf("cart should be cleared after checkout: %+v", cleared)
	}
}

func TestCheckoutLoyaltyFailureDoesNotFailOrder(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "may-loc-nuoc", 2000000)
	customer := &models.Customer{Email: "loi@example.com", Name: "Lỗi Tích Điểm", Tier: constants.TierStandard}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	// 积分流水表缺失使入账失败，订单不受影响
	if err := db.Migrator().DropTable(&models.PointLedger{}); err != nil {
		t.Fatalf("drop ledger table failed: %v", err)
	}

	core, logs := observer.New(zap.WarnLevel)
	prev := logger.L
	logger.L = zap.New(core)
	defer func() { logger.L = prev }()

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	input.CustomerID = customer.ID
	receipt, err := svc.Checkout(input)
	if err != nil {
		t.Fatalf("checkout must survive loyalty failure: %v", err)
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("id = ?", receipt.OrderID).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("order should be persisted, got %d rows", count)
	}
	if logs.FilterMessage("checkout_loyalty_accrue_failed").Len() == 0 {
		t.Fatalf("expected accrue failure warning, got %+v", logs.All())
	}
}

func TestCheckoutGuestSkipsLoyalty(t *testing.T) {
	svc, _, db := setupCheckoutServiceTest(t)
	variant := createTestVariant(t, db, "giay-the-thao", 750000)

	input := validCheckoutInput(t, []CheckoutItem{{VariantID: variant.ID, Quantity: 1}})
	if _, err := svc.Checkout(input); err != nil {
		t.Fatalf("guest checkout failed: %v", err)
	}

	var ledgerRows int64
	if err := db.Model(&models.PointLedger{}).Count(&ledgerRows).Error; err != nil {
		t.Fatalf("count ledger failed: %v", err)
	}
	if ledgerRows != 0 {
		t.Fatalf("guest order must not accrue points, got %d rows", ledgerRows)
	}
}
