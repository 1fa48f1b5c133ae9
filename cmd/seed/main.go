package main

import (
	"fmt"
	"time"

	"github.com/haimart-next/internal/config"
	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/models"

	"github.com/shopspring/decimal"
)

func vnd(amount int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "dien-thoai", Name: "Điện thoại", SortOrder: 300},
		{Slug: "phu-kien", Name: "Phụ kiện", SortOrder: 200},
		{Slug: "gia-dung", Name: "Đồ gia dụng", SortOrder: 100},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"dien-thoai", "phu-kien", "gia-dung"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	phoneID := categoryIDs["dien-thoai"]
	accessoryID := categoryIDs["phu-kien"]
	homeID := categoryIDs["gia-dung"]

	// 添加商品与规格
	products := []models.Product{
		{
			CategoryID:  phoneID,
			Slug:        "galaxy-a56",
			Name:        "Samsung Galaxy A56 5G",
			Description: "Màn hình Super AMOLED 6.7 inch, pin 5000mAh, sạc nhanh 45W.",
			BasePrice:   vnd(9_990_000),
			Images:      models.StringArray{"https://cdn.haimart.vn/products/galaxy-a56.jpg"},
			Tags:        models.StringArray{"samsung", "5g"},
			IsActive:    true,
			SortOrder:   300,
			Variants: []models.ProductVariant{
				{SKU: "A56-128-BLK", Name: "128GB Đen", Price: vnd(9_990_000), StockQty: 40, InStock: true, IsActive: true, SortOrder: 20},
				{SKU: "A56-256-BLU", Name: "256GB Xanh", Price: vnd(11_490_000), StockQty: 25, InStock: true, IsActive: true, SortOrder: 10},
			},
		},
		{
			CategoryID:  accessoryID,
			Slug:        "tai-nghe-bluetooth-m10",
			Name:        "Tai nghe Bluetooth M10",
			Description: "Chống ồn chủ động, pin 24 giờ, kết nối Bluetooth 5.3.",
			BasePrice:   vnd(790_000),
			Images:      models.StringArray{"https://cdn.haimart.vn/products/tai-nghe-m10.jpg"},
			Tags:        models.StringArray{"am-thanh", "khong-day"},
			IsActive:    true,
			SortOrder:   200,
			Variants: []models.ProductVariant{
				{SKU: "M10-WHT", Name: "Trắng", Price: vnd(790_000), StockQty: 120, InStock: true, IsActive: true, SortOrder: 20},
				{SKU: "M10-BLK", Name: "Đen", Price: vnd(790_000), StockQty: 80, InStock: true, IsActive: true, SortOrder: 10},
			},
		},
		{
			CategoryID:  accessoryID,
			Slug:        "sac-du-phong-20k",
			Name:        "Sạc dự phòng 20.000mAh",
			Description: "Sạc nhanh PD 22.5W, hai cổng USB-C, màn hình hiển thị phần trăm pin.",
			BasePrice:   vnd(450_000),
			Images:      models.StringArray{"https://cdn.haimart.vn/products/sac-du-phong.jpg"},
			Tags:        models.StringArray{"pin", "du-phong"},
			IsActive:    true,
			SortOrder:   150,
			Variants: []models.ProductVariant{
				{SKU: "PB20-STD", Name: "Tiêu chuẩn", Price: vnd(450_000), StockQty: 200, InStock: true, IsActive: true, SortOrder: 10},
			},
		},
		{
			CategoryID:  homeID,
			Slug:        "noi-chien-khong-dau-5l",
			Name:        "Nồi chiên không dầu 5L",
			Description: "Dung tích 5 lít, 8 chế độ nấu, lòng nồi chống dính tháo rời.",
			BasePrice:   vnd(1_590_000),
			Images:      models.StringArray{"https://cdn.haimart.vn/products/noi-chien.jpg"},
			Tags:        models.StringArray{"nha-bep"},
			IsActive:    true,
			SortOrder:   100,
			Variants: []models.ProductVariant{
				{SKU: "AF5-WHT", Name: "Trắng", Price: vnd(1_590_000), StockQty: 30, InStock: true, IsActive: true, SortOrder: 20},
				{SKU: "AF5-BLK", Name: "Đen", Price: vnd(1_590_000), StockQty: 0, InStock: false, IsActive: true, SortOrder: 10},
			},
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", prod.Slug)
		}
	}

	// 添加促销活动（限时抢购 + 换季促销）
	now := time.Now().UTC()
	flashStart := now.Add(-2 * time.Hour)
	flashEnd := now.AddDate(0, 0, 3)
	seasonStart := now.Add(-24 * time.Hour)
	seasonEnd := now.AddDate(0, 1, 0)

	var earphone models.Product
	var airFryer models.Product
	_ = models.DB.Where("slug = ?", "tai-nghe-bluetooth-m10").Preload("Variants").First(&earphone).Error
	_ = models.DB.Where("slug = ?", "noi-chien-khong-dau-5l").First(&airFryer).Error

	if earphone.ID != 0 {
		campaign := models.Campaign{
			Slug:        "flash-sale-cuoi-tuan",
			Name:        "Flash Sale Cuối Tuần",
			Description: "Giảm sâu 72 giờ cho phụ kiện bán chạy.",
			Type:        constants.CampaignTypeFlashSale,
			StartsAt:    flashStart,
			EndsAt:      flashEnd,
			IsActive:    true,
			IsFeatured:  true,
			Items: []models.CampaignItem{
				{ProductID: earphone.ID, SalePrice: vnd(590_000), OriginalPrice: vnd(790_000), MaxQuantity: 100},
			},
		}
		var existing models.Campaign
		if err := models.DB.Where("slug = ?", campaign.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&campaign).Error; err != nil {
				stdLog.Printf("Failed to create campaign %s: %v", campaign.Slug, err)
			} else {
				stdLog.Printf("Created campaign: %s", campaign.Slug)
			}
		} else {
			stdLog.Printf("Campaign already exists: %s", campaign.Slug)
		}
	}

	if airFryer.ID != 0 {
		campaign := models.Campaign{
			Slug:        "uu-dai-gia-dung",
			Name:        "Ưu Đãi Gia Dụng",
			Description: "Giá tốt cho đồ gia dụng trong cả tháng.",
			Type:        constants.CampaignTypeSeasonal,
			StartsAt:    seasonStart,
			EndsAt:      seasonEnd,
			IsActive:    true,
			Items: []models.CampaignItem{
				{ProductID: airFryer.ID, SalePrice: vnd(1_390_000), OriginalPrice: vnd(1_590_000)},
			},
		}
		var existing models.Campaign
		if err := models.DB.Where("slug = ?", campaign.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&campaign).Error; err != nil {
				stdLog.Printf("Failed to create campaign %s: %v", campaign.Slug, err)
			} else {
				stdLog.Printf("Created campaign: %s", campaign.Slug)
			}
		} else {
			stdLog.Printf("Campaign already exists: %s", campaign.Slug)
		}
	}

	// 添加优惠码
	couponStart := now.Add(-24 * time.Hour)
	couponEnd := now.AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:           "SUMMER20",
			Name:           "Giảm 20% mùa hè",
			Type:           constants.CouponTypePercent,
			Value:          vnd(20),
			MinOrderAmount: vnd(500_000),
			MaxDiscount:    vnd(200_000),
			UsageLimit:     500,
			PerUserLimit:   1,
			StartsAt:       &couponStart,
			EndsAt:         &couponEnd,
			IsActive:       true,
		},
		{
			Code:           "WELCOME50K",
			Name:           "Tân khách giảm 50K",
			Type:           constants.CouponTypeFixed,
			Value:          vnd(50_000),
			MinOrderAmount: vnd(300_000),
			FirstOrderOnly: true,
			PerUserLimit:   1,
			IsActive:       true,
		},
		{
			Code:     "FREESHIPVIP",
			Name:     "Miễn phí vận chuyển hội viên Vàng",
			Type:     constants.CouponTypeFreeShipping,
			Value:    vnd(0),
			MinTier:  constants.TierGold,
			IsActive: true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 添加演示客户
	customers := []models.Customer{
		{Email: "an.nguyen@example.com", Name: "Nguyễn Văn An", Phone: "0901234567", Tier: constants.TierStandard},
		{Email: "linh.tran@example.com", Name: "Trần Thùy Linh", Phone: "0912345678", Tier: constants.TierGold, Points: 1250, TotalSpent: vnd(14_500_000), OrderCount: 9},
	}

	for _, customer := range customers {
		var existing models.Customer
		if err := models.DB.Where("email = ?", customer.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Email, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Email)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Email)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 4 Products with variants")
	fmt.Println("- 2 Campaigns (flash_sale + seasonal)")
	fmt.Println("- 3 Coupons (percent / fixed / free_shipping)")
	fmt.Println("- 2 Demo customers")
}
