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

func setupCouponAdminServiceTest(t *testing.T) (*CouponAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCouponAdminService(repository.NewCouponRepository(db)), db
}

func TestCouponAdminCreateNormalizesCode(t *testing.T) {
	svc, _ := setupCouponAdminServiceTest(t)

	created, err := svc.Create(CouponAdminInput{
		Code: "  tet2026 ", Name: "Tết 2026",
		Type: constants.CouponTypePercent, Value: money(t, 15),
		ScopeProductIDs: []uint{3, 7},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Code != "TET2026" {
		t.Fatalf("code want TET2026 got %s", created.Code)
	}
	if created.ScopeProductIDs != "[3,7]" {
		t.Fatalf("scope want [3,7] got %s", created.ScopeProductIDs)
	}
	// 缺省可叠加、默认启用
	if !created.StackableWithSale || !created.IsActive {
		t.Fatalf("defaults wrong: %+v", created)
	}

	if _, err := svc.Create(CouponAdminInput{
		Code: "tet2026", Name: "Trùng mã",
		Type: constants.CouponTypeFixed, Value: money(t, 50000),
	}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected duplicate code rejection, got %v", err)
	}
}

func TestCouponAdminValidationRejections(t *testing.T) {
	svc, _ := setupCouponAdminServiceTest(t)

	cases := []CouponAdminInput{
		{Code: "", Type: constants.CouponTypeFixed, Value: money(t, 1)},
		{Code: "P0", Type: constants.CouponTypePercent, Value: money(t, 0)},
		{Code: "P101", Type: constants.CouponTypePercent, Value: money(t, 101)},
		{Code: "BADTYPE", Type: "lucky", Value: money(t, 1)},
		{Code: "BADTIER", Type: constants.CouponTypeFixed, Value: money(t, 1), MinTier: "platinum"},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("case %d: expected invalid, got %v", i, err)
		}
	}

	// 结束早于开始
	start := time.Now()
	end := start.Add(-time.Hour)
	if _, err := svc.Create(CouponAdminInput{
		Code: "BADWINDOW", Type: constants.CouponTypeFixed, Value: money(t, 1),
		StartsAt: &start, EndsAt: &end,
	}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected invalid window, got %v", err)
	}
}

func TestCouponAdminUpdateAndDelete(t *testing.T) {
	svc, _ := setupCouponAdminServiceTest(t)

	created, err := svc.Create(CouponAdminInput{
		Code: "EDITME", Name: "Trước", Type: constants.CouponTypeFixed, Value: money(t, 30000),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inactive := false
	updated, err := svc.Update(created.ID, CouponAdminInput{
		Code: "EDITME", Name: "Sau", Type: constants.CouponTypePercent, Value: money(t, 10),
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Sau" || updated.Type != constants.CouponTypePercent || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
