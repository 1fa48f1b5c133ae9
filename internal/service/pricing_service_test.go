package service

import (
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

func money(t *testing.T, amount int64) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func setupPricingServiceTest(t *testing.T) (*PricingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pricing_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Campaign{}, &models.CampaignItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewPricingService(repository.NewCampaignRepository(db)), db
}

func createTestCampaign(t *testing.T, db *gorm.DB, slug string, startsAt, endsAt time.Time, items []models.CampaignItem) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		Slug:     slug,
		Name:     slug,
		Type:     constants.CampaignTypeFlashSale,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		IsActive: true,
		Items:    items,
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return campaign
}

func TestResolveSalePriceNoCampaignFallsBackToBase(t *testing.T) {
	svc, _ := setupPricingServiceTest(t)

	resolved, err := svc.ResolveSalePrice(1, 10, money(t, 100000), time.Now().UTC())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.OnSale() {
		t.Fatalf("expected no sale hit")
	}
	if !resolved.UnitPrice.Decimal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("unit price want 100000 got %s", resolved.UnitPrice.Decimal)
	}
}

func TestResolveSalePriceVariantSpecificBeatsProductWide(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC()
	variantID := uint(10)

	// 整品条目价格更低，但规格专属条目优先
	createTestCampaign(t, db, "wide", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 1, SalePrice: money(t, 60000)},
	})
	createTestCampaign(t, db, "specific", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 1, VariantID: &variantID, SalePrice: money(t, 80000)},
	})

	resolved, err := svc.ResolveSalePrice(1, variantID, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !resolved.OnSale() {
		t.Fatalf("expected sale hit")
	}
	if resolved.CampaignItem.VariantID == nil {
		t.Fatalf("expected variant-specific item to win")
	}
	if !resolved.UnitPrice.Decimal.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("unit price want 80000 got %s", resolved.UnitPrice.Decimal)
	}
}

func TestResolveSalePriceTieBreakLowestPrice(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC()

	createTestCampaign(t, db, "tie-a", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 2, SalePrice: money(t, 90000)},
	})
	createTestCampaign(t, db, "tie-b", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 2, SalePrice: money(t, 85000)},
	})

	resolved, err := svc.ResolveSalePrice(2, 20, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !resolved.UnitPrice.Decimal.Equal(decimal.NewFromInt(85000)) {
		t.Fatalf("unit price want 85000 got %s", resolved.UnitPrice.Decimal)
	}
}

func TestResolveSalePriceSkipsSoldOutItem(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC()

	createTestCampaign(t, db, "soldout", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 3, SalePrice: money(t, 50000), MaxQuantity: 5, SoldQuantity: 5},
	})

	resolved, err := svc.ResolveSalePrice(3, 30, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.OnSale() {
		t.Fatalf("sold-out item should not match")
	}
}

func TestResolveSalePriceOutsideWindow(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC()

	createTestCampaign(t, db, "expired", now.Add(-48*time.Hour), now.Add(-24*time.Hour), []models.CampaignItem{
		{ProductID: 4, SalePrice: money(t, 50000)},
	})

	resolved, err := svc.ResolveSalePrice(4, 40, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.OnSale() {
		t.Fatalf("expired campaign should not match")
	}
}

func TestResolveSalePriceWindowBoundsInclusive(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	// 窗口首尾时刻均生效
	createTestCampaign(t, db, "ends-now", now.Add(-time.Hour), now, []models.CampaignItem{
		{ProductID: 6, SalePrice: money(t, 50000)},
	})
	resolved, err := svc.ResolveSalePrice(6, 60, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !resolved.OnSale() {
		t.Fatalf("campaign ending exactly now must still apply")
	}

	createTestCampaign(t, db, "starts-now", now, now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 7, SalePrice: money(t, 40000)},
	})
	resolved, err = svc.ResolveSalePrice(7, 70, money(t, 100000), now)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !resolved.OnSale() {
		t.Fatalf("campaign starting exactly now must apply")
	}
}

func TestResolveCompareAtPriceFallsBackToBase(t *testing.T) {
	// 录入原价低于活动价视为无效，回退到基准价
	item := &models.CampaignItem{
		SalePrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(80000)),
		OriginalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(70000)),
	}
	got := resolveCompareAtPrice(item, models.NewMoneyFromDecimal(decimal.NewFromInt(100000)))
	if !got.Decimal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("compare-at want base 100000 got %s", got.Decimal)
	}

	item.OriginalPrice = models.NewMoneyFromDecimal(decimal.NewFromInt(120000))
	got = resolveCompareAtPrice(item, models.NewMoneyFromDecimal(decimal.NewFromInt(100000)))
	if !got.Decimal.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("compare-at want original 120000 got %s", got.Decimal)
	}
}

func TestListActiveSaleItemsOrdering(t *testing.T) {
	svc, db := setupPricingServiceTest(t)
	now := time.Now().UTC()
	variantID := uint(11)

	createTestCampaign(t, db, "order-a", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: 5, SalePrice: money(t, 70000)},
		{ProductID: 5, VariantID: &variantID, SalePrice: money(t, 90000)},
	})

	rows, err := svc.ListActiveSaleItems([]uint{5}, nil, now)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	if rows[0].VariantID == nil {
		t.Fatalf("variant-specific row should come first")
	}
}
