package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (*CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:category_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCategoryCreateAndRename(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	created, err := svc.Create(CategoryInput{Slug: "gia-dung", Name: "Gia dụng"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(CategoryInput{Slug: "gia-dung", Name: "Trùng"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got %v", err)
	}
	if _, err := svc.Create(CategoryInput{Slug: " ", Name: "Thiếu slug"}); !errors.Is(err, ErrCategoryInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}

	updated, err := svc.Update(created.ID, CategoryInput{Slug: "do-gia-dung", Name: "Đồ gia dụng", SortOrder: 3})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "do-gia-dung" || updated.SortOrder != 3 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestCategoryDeleteRejectsWhenInUse(t *testing.T) {
	svc, db := setupCategoryServiceTest(t)

	created, err := svc.Create(CategoryInput{Slug: "phu-kien", Name: "Phụ kiện"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.Create(&models.Product{
		CategoryID: created.ID,
		Slug:       "op-lung-da",
		Name:       "Ốp lưng da",
		BasePrice:  money(t, 150000),
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if err := svc.Delete(created.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected category in use, got %v", err)
	}

	if err := db.Where("category_id = ?", created.ID).Delete(&models.Product{}).Error; err != nil {
		t.Fatalf("remove product failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
