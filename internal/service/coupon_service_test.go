package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCouponServiceTest(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponRedemption{}, &models.Customer{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCouponService(repository.NewCouponRepository(db), repository.NewCouponRedemptionRepository(db)), db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Name == "" {
		coupon.Name = coupon.Code
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestValidateCouponPercentAmount(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createTestCoupon(t, db, &models.Coupon{
		Code:     "SUMMER20",
		Type:     constants.CouponTypePercent,
		Value:    money(t, 10),
		IsActive: true,
	})

	outcome, err := svc.Validate(ValidateCouponInput{Code: "summer20 ", CartTotal: money(t, 80000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Valid {
		t.Fatalf("expected valid, reason %s", outcome.ReasonKey)
	}
	if !outcome.Amount.Decimal.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("amount want 8000 got %s", outcome.Amount.Decimal)
	}
}

func TestValidateCouponAmountClamps(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createTestCoupon(t, db, &models.Coupon{
		Code:        "BIG50",
		Type:        constants.CouponTypePercent,
		Value:       money(t, 50),
		MaxDiscount: money(t, 100000),
		IsActive:    true,
	})
	createTestCoupon(t, db, &models.Coupon{
		Code:     "FIXED900",
		Type:     constants.CouponTypeFixed,
		Value:    money(t, 900000),
		IsActive: true,
	})

	// 50% 折算超过最大优惠上限时收敛到上限
	outcome, err := svc.Validate(ValidateCouponInput{Code: "BIG50", CartTotal: money(t, 1000000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Amount.Decimal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("amount want 100000 got %s", outcome.Amount.Decimal)
	}

	// 固定金额不超过购物车总额
	outcome, err = svc.Validate(ValidateCouponInput{Code: "FIXED900", CartTotal: money(t, 500000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Amount.Decimal.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("amount want 500000 got %s", outcome.Amount.Decimal)
	}
}

func TestValidateCouponRejections(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	createTestCoupon(t, db, &models.Coupon{Code: "OFF", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: false})
	createTestCoupon(t, db, &models.Coupon{Code: "SOON", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: true, StartsAt: &future})
	createTestCoupon(t, db, &models.Coupon{Code: "GONE", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: true, EndsAt: &past})
	createTestCoupon(t, db, &models.Coupon{Code: "FULL", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: true, UsageLimit: 3, UsedCount: 3})
	createTestCoupon(t, db, &models.Coupon{Code: "MIN500K", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: true, MinOrderAmount: money(t, 500000)})
	createTestCoupon(t, db, &models.Coupon{Code: "GOLDONLY", Type: constants.CouponTypeFixed, Value: money(t, 1000), IsActive: true, MinTier: constants.TierGold})

	cases := []struct {
		code    string
		input   ValidateCouponInput
		wantKey string
	}{
		{"NOPE", ValidateCouponInput{Code: "NOPE", CartTotal: money(t, 100000)}, ReasonCouponNotFound},
		{"OFF", ValidateCouponInput{Code: "OFF", CartTotal: money(t, 100000)}, ReasonCouponInactive},
		{"SOON", ValidateCouponInput{Code: "SOON", CartTotal: money(t, 100000)}, ReasonCouponNotStarted},
		{"GONE", ValidateCouponInput{Code: "GONE", CartTotal: money(t, 100000)}, ReasonCouponExpired},
		{"FULL", ValidateCouponInput{Code: "FULL", CartTotal: money(t, 100000)}, ReasonCouponUsageLimit},
		{"MIN500K", ValidateCouponInput{Code: "MIN500K", CartTotal: money(t, 100000)}, ReasonCouponMinAmount},
		{"GOLDONLY", ValidateCouponInput{Code: "GOLDONLY", CartTotal: money(t, 100000)}, ReasonCouponTierRequired},
		{"GOLDONLY-guest", ValidateCouponInput{Code: "GOLDONLY", CartTotal: money(t, 100000), Customer: &models.Customer{Tier: constants.TierSilver}}, ReasonCouponTierRequired},
	}
	for _, tc := range cases {
		outcome, err := svc.Validate(tc.input)
		if err != nil {
			t.Fatalf("%s: validate failed: %v", tc.code, err)
		}
		if outcome.Valid {
			t.Fatalf("%s: expected invalid", tc.code)
		}
		if outcome.ReasonKey != tc.wantKey {
			t.Fatalf("%s: reason want %s got %s", tc.code, tc.wantKey, outcome.ReasonKey)
		}
	}
}

func TestValidateCouponPerUserLimit(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:         "ONCE",
		Type:         constants.CouponTypeFixed,
		Value:        money(t, 1000),
		IsActive:     true,
		PerUserLimit: 1,
	})
	customerID := uint(7)
	if err := db.Create(&models.CouponRedemption{CouponID: coupon.ID, CustomerID: &customerID, OrderID: 1, Code: "ONCE"}).Error; err != nil {
		t.Fatalf("create redemption failed: %v", err)
	}

	outcome, err := svc.Validate(ValidateCouponInput{
		Code:      "ONCE",
		CartTotal: money(t, 100000),
		Customer:  &models.Customer{ID: customerID},
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if outcome.Valid || outcome.ReasonKey != ReasonCouponPerUserLimit {
		t.Fatalf("expected per-user limit rejection, got %+v", outcome)
	}

	// 游客不携带身份，跳过每人上限检查
	outcome, err = svc.Validate(ValidateCouponInput{Code: "ONCE", CartTotal: money(t, 100000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Valid {
		t.Fatalf("guest should pass per-user check, reason %s", outcome.ReasonKey)
	}
}

func TestValidateCouponFirstOrderOnly(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createTestCoupon(t, db, &models.Coupon{
		Code:           "WELCOME",
		Type:           constants.CouponTypeFixed,
		Value:          money(t, 50000),
		IsActive:       true,
		FirstOrderOnly: true,
	})

	outcome, err := svc.Validate(ValidateCouponInput{
		Code:      "WELCOME",
		CartTotal: money(t, 300000),
		Customer:  &models.Customer{ID: 1, OrderCount: 2},
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if outcome.Valid || outcome.ReasonKey != ReasonCouponFirstOrderOnly {
		t.Fatalf("expected first-order rejection, got %+v", outcome)
	}
}

func TestValidateCouponScopes(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	categoryID := uint(3)
	createTestCoupon(t, db, &models.Coupon{
		Code:       "CATONLY",
		Type:       constants.CouponTypeFixed,
		Value:      money(t, 1000),
		IsActive:   true,
		CategoryID: &categoryID,
	})
	createTestCoupon(t, db, &models.Coupon{
		Code:            "PRODONLY",
		Type:            constants.CouponTypeFixed,
		Value:           money(t, 1000),
		IsActive:        true,
		ScopeProductIDs: "[11,12]",
	})

	outcome, err := svc.Validate(ValidateCouponInput{Code: "CATONLY", CartTotal: money(t, 100000), CategoryIDs: []uint{1, 2}})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if outcome.Valid || outcome.ReasonKey != ReasonCouponScopeCategory {
		t.Fatalf("expected category scope rejection, got %+v", outcome)
	}

	outcome, err = svc.Validate(ValidateCouponInput{Code: "PRODONLY", CartTotal: money(t, 100000), ProductIDs: []uint{99}})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if outcome.Valid || outcome.ReasonKey != ReasonCouponScopeProduct {
		t.Fatalf("expected product scope rejection, got %+v", outcome)
	}

	outcome, err = svc.Validate(ValidateCouponInput{Code: "PRODONLY", CartTotal: money(t, 100000), ProductIDs: []uint{12, 99}})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Valid {
		t.Fatalf("intersecting product scope should pass, reason %s", outcome.ReasonKey)
	}
}

func TestValidateCouponScopeSkippedWithoutContext(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	categoryID := uint(3)
	createTestCoupon(t, db, &models.Coupon{
		Code:       "CATFREE",
		Type:       constants.CouponTypeFixed,
		Value:      money(t, 1000),
		IsActive:   true,
		CategoryID: &categoryID,
	})
	createTestCoupon(t, db, &models.Coupon{
		Code:            "PRODFREE",
		Type:            constants.CouponTypeFixed,
		Value:           money(t, 1000),
		IsActive:        true,
		ScopeProductIDs: "[11,12]",
	})

	// 不带分类/商品上下文的纯查询不触发范围校验
	outcome, err := svc.Validate(ValidateCouponInput{Code: "CATFREE", CartTotal: money(t, 100000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Valid {
		t.Fatalf("category scope must be skipped without requested categories, reason %s", outcome.ReasonKey)
	}

	outcome, err = svc.Validate(ValidateCouponInput{Code: "PRODFREE", CartTotal: money(t, 100000)})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !outcome.Valid {
		t.Fatalf("product scope must be skipped without requested products, reason %s", outcome.ReasonKey)
	}
}

func TestRedeemIncrementsAndRecords(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:       "REDEEM",
		Type:       constants.CouponTypeFixed,
		Value:      money(t, 1000),
		IsActive:   true,
		UsageLimit: 1,
	})

	if err := svc.Redeem(coupon.ID, nil, 100, "REDEEM", money(t, 1000)); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", reloaded.UsedCount)
	}
	var redemptions int64
	if err := db.Model(&models.CouponRedemption{}).Where("order_id = ?", 100).Count(&redemptions).Error; err != nil {
		t.Fatalf("count redemptions failed: %v", err)
	}
	if redemptions != 1 {
		t.Fatalf("redemption count want 1 got %d", redemptions)
	}

	// 上限用尽后核销被拒绝，且不落核销记录
	err := svc.Redeem(coupon.ID, nil, 101, "REDEEM", money(t, 1000))
	if !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got %v", err)
	}
	if err := db.Model(&models.CouponRedemption{}).Where("order_id = ?", 101).Count(&redemptions).Error; err != nil {
		t.Fatalf("count redemptions failed: %v", err)
	}
	if redemptions != 0 {
		t.Fatalf("failed redeem must not record, got %d", redemptions)
	}
}
