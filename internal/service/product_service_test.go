package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewVariantRepository(db),
		NewPricingService(repository.NewCampaignRepository(db)),
	)
	return svc, db
}

func validProductInput(t *testing.T, slug string) ProductInput {
	t.Helper()
	return ProductInput{
		CategoryID: 1,
		Slug:       slug,
		Name:       slug,
		BasePrice:  money(t, 100000),
		Variants: []VariantInput{
			{SKU: slug + "-A", Name: "Đen", Price: money(t, 100000), StockQty: 5},
			{SKU: slug + "-B", Name: "Trắng", Price: money(t, 110000), StockQty: 3},
		},
	}
}

func TestProductCreateWithVariants(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	created, err := svc.Create(validProductInput(t, "noi-com-dien"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(created.Variants) != 2 {
		t.Fatalf("variants want 2 got %d", len(created.Variants))
	}
	for _, v := range created.Variants {
		if !v.IsActive || !v.InStock {
			t.Fatalf("variant defaults should be active and in stock: %+v", v)
		}
	}

	if _, err := svc.Create(validProductInput(t, "noi-com-dien")); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got %v", err)
	}
}

func TestProductCreateValidation(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	input := validProductInput(t, "thieu-ten")
	input.Name = "  "
	if _, err := svc.Create(input); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected product invalid, got %v", err)
	}

	input = validProductInput(t, "gia-am")
	input.BasePrice = money(t, 0)
	if _, err := svc.Create(input); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("expected price invalid, got %v", err)
	}

	input = validProductInput(t, "sku-trung")
	input.Variants[1].SKU = input.Variants[0].SKU
	if _, err := svc.Create(input); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant invalid for duplicate sku, got %v", err)
	}
}

func TestProductGetPublicBySlugCarriesSalePrice(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	created, err := svc.Create(validProductInput(t, "may-xay-sinh-to"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	now := time.Now().UTC()
	createTestCampaign(t, db, "detail-sale", now.Add(-time.Hour), now.Add(time.Hour), []models.CampaignItem{
		{ProductID: created.ID, SalePrice: money(t, 90000)},
	})

	detail, err := svc.GetPublicBySlug("may-xay-sinh-to")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(detail.Variants) != 2 {
		t.Fatalf("variant views want 2 got %d", len(detail.Variants))
	}
	for _, view := range detail.Variants {
		if !view.OnSale {
			t.Fatalf("variant should be on sale: %+v", view)
		}
		if !view.UnitPrice.Decimal.Equal(decimal.NewFromInt(90000)) {
			t.Fatalf("unit price want 90000 got %s", view.UnitPrice.Decimal)
		}
	}

	// 下架商品在公开接口中不可见
	if err := db.Model(&models.Product{}).Where("id = ?", created.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := svc.GetPublicBySlug("may-xay-sinh-to"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestProductUpdateKeepsVariants(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	created, err := svc.Create(validProductInput(t, "truoc-khi-sua"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := validProductInput(t, "sau-khi-sua")
	input.Variants = nil
	updated, err := svc.Update(created.ID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "sau-khi-sua" {
		t.Fatalf("slug want updated got %s", updated.Slug)
	}
	if len(updated.Variants) != 2 {
		t.Fatalf("variants must survive product update, got %d", len(updated.Variants))
	}
}

func TestProductUpsertVariant(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	created, err := svc.Create(validProductInput(t, "ghe-gap"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	variant, err := svc.UpsertVariant(created.ID, VariantInput{
		SKU: "ghe-gap-C", Name: "Xanh", Price: money(t, 120000), StockQty: 7,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	if variant.ID == 0 || !variant.IsActive {
		t.Fatalf("unexpected new variant: %+v", variant)
	}

	inStock := false
	updated, err := svc.UpsertVariant(created.ID, VariantInput{
		ID: variant.ID, SKU: "ghe-gap-C", Name: "Xanh đậm", Price: money(t, 130000), InStock: &inStock,
	})
	if err != nil {
		t.Fatalf("update variant failed: %v", err)
	}
	if updated.Name != "Xanh đậm" || updated.InStock {
		t.Fatalf("variant update not applied: %+v", updated)
	}

	// 规格不属于该商品时拒绝
	other, err := svc.Create(validProductInput(t, "ban-gap"))
	if err != nil {
		t.Fatalf("create other failed: %v", err)
	}
	if _, err := svc.UpsertVariant(other.ID, VariantInput{ID: variant.ID, SKU: "x", Price: money(t, 1)}); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant invalid for cross-product update, got %v", err)
	}
	if err := svc.DeleteVariant(other.ID, variant.ID); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected variant invalid for cross-product delete, got %v", err)
	}
	if err := svc.DeleteVariant(created.ID, variant.ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}
}

func TestProductListPublicFiltersInactive(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	if _, err := svc.Create(validProductInput(t, "con-ban")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	hidden, err := svc.Create(validProductInput(t, "ngung-ban"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	rows, total, err := svc.ListPublic(0, "", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "con-ban" {
		t.Fatalf("public list should hide inactive products: total=%d rows=%+v", total, rows)
	}

	adminRows, adminTotal, err := svc.ListAdmin(0, "", 1, 20)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if adminTotal != 2 || len(adminRows) != 2 {
		t.Fatalf("admin list should include inactive products: total=%d", adminTotal)
	}
}
