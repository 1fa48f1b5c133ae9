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
	"gorm.io/gorm"
)

func setupCampaignAdminServiceTest(t *testing.T) (*CampaignAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:campaign_admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Campaign{}, &models.CampaignItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCampaignAdminService(repository.NewCampaignRepository(db)), db
}

func validCampaignInput(t *testing.T, slug string, items []CampaignItemInput) CampaignAdminInput {
	t.Helper()
	now := time.Now().UTC()
	return CampaignAdminInput{
		Slug:     slug,
		Name:     slug,
		Type:     constants.CampaignTypeFlashSale,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(24 * time.Hour),
		Items:    items,
	}
}

func TestCampaignCreateAndGet(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	created, err := svc.Create(validCampaignInput(t, "flash-1", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 80000), OriginalPrice: money(t, 100000), MaxQuantity: 50},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Slug != "flash-1" || len(got.Items) != 1 {
		t.Fatalf("unexpected campaign: %+v", got)
	}
}

func TestCampaignCreateSlugTaken(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	input := validCampaignInput(t, "dup-slug", []CampaignItemInput{{ProductID: 1, SalePrice: money(t, 80000)}})
	if _, err := svc.Create(input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// 换商品避开排他冲突，只触发 slug 冲突
	input.Items = []CampaignItemInput{{ProductID: 2, SalePrice: money(t, 80000)}}
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignSlugTaken) {
		t.Fatalf("expected slug taken, got %v", err)
	}
}

func TestCampaignValidationRejections(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	variantID := uint(9)

	// 窗口颠倒
	input := validCampaignInput(t, "bad-window", []CampaignItemInput{{ProductID: 1, SalePrice: money(t, 80000)}})
	input.StartsAt, input.EndsAt = input.EndsAt, input.StartsAt
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignWindowInvalid) {
		t.Fatalf("expected window invalid, got %v", err)
	}

	// (商品, 规格) 重复
	input = validCampaignInput(t, "dup-item", []CampaignItemInput{
		{ProductID: 1, VariantID: &variantID, SalePrice: money(t, 80000)},
		{ProductID: 1, VariantID: &variantID, SalePrice: money(t, 70000)},
	})
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignItemDuplicate) {
		t.Fatalf("expected item duplicate, got %v", err)
	}

	// 同一商品同时出现整品条目和规格条目
	input = validCampaignInput(t, "conflict-item", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 80000)},
		{ProductID: 1, VariantID: &variantID, SalePrice: money(t, 70000)},
	})
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignItemConflict) {
		t.Fatalf("expected item conflict, got %v", err)
	}

	// 活动价必须为正
	input = validCampaignInput(t, "zero-price", []CampaignItemInput{{ProductID: 1, SalePrice: money(t, 0)}})
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}

	// 类型不在支持范围
	input = validCampaignInput(t, "bad-type", []CampaignItemInput{{ProductID: 1, SalePrice: money(t, 80000)}})
	input.Type = "lucky_draw"
	if _, err := svc.Create(input); !errors.Is(err, ErrCampaignInvalid) {
		t.Fatalf("expected invalid type, got %v", err)
	}
}

func TestCampaignCreateOverlapRejected(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	variantID := uint(5)

	if _, err := svc.Create(validCampaignInput(t, "base", []CampaignItemInput{
		{ProductID: 1, VariantID: &variantID, SalePrice: money(t, 80000)},
	})); err != nil {
		t.Fatalf("create base failed: %v", err)
	}

	// 同商品整品条目与已有规格条目范围相交
	if _, err := svc.Create(validCampaignInput(t, "overlap", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 70000)},
	})); !errors.Is(err, ErrCampaignOverlap) {
		t.Fatalf("expected overlap, got %v", err)
	}

	// 另一规格不相交，允许并存
	otherVariant := uint(6)
	if _, err := svc.Create(validCampaignInput(t, "disjoint", []CampaignItemInput{
		{ProductID: 1, VariantID: &otherVariant, SalePrice: money(t, 70000)},
	})); err != nil {
		t.Fatalf("disjoint variant should be allowed: %v", err)
	}
}

func TestCampaignUpdateReplacesItems(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	created, err := svc.Create(validCampaignInput(t, "update-me", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 80000)},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := validCampaignInput(t, "update-me", []CampaignItemInput{
		{ProductID: 2, SalePrice: money(t, 60000)},
		{ProductID: 3, SalePrice: money(t, 50000)},
	})
	updated, err := svc.Update(created.ID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(updated.Items))
	}
	for _, item := range updated.Items {
		if item.ProductID == 1 {
			t.Fatalf("old item should be replaced")
		}
	}
}

func TestCampaignUpdateStaleVersionRejected(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	created, err := svc.Create(validCampaignInput(t, "versioned", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 80000)},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stale := created.UpdatedAt.Add(-time.Minute)
	input := validCampaignInput(t, "versioned", []CampaignItemInput{{ProductID: 1, SalePrice: money(t, 70000)}})
	input.UpdatedAt = &stale
	if _, err := svc.Update(created.ID, input); !errors.Is(err, ErrCampaignModified) {
		t.Fatalf("expected modified, got %v", err)
	}

	fresh := created.UpdatedAt
	input.UpdatedAt = &fresh
	if _, err := svc.Update(created.ID, input); err != nil {
		t.Fatalf("update with current version failed: %v", err)
	}
}

func TestCampaignDelete(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	created, err := svc.Create(validCampaignInput(t, "delete-me", []CampaignItemInput{
		{ProductID: 1, SalePrice: money(t, 80000)},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
