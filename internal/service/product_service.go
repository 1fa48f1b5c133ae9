package service

import (
	"strings"
	"time"

	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	variantRepo repository.VariantRepository
	pricing     *PricingService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, variantRepo repository.VariantRepository, pricing *PricingService) *ProductService {
	return &ProductService{repo: repo, variantRepo: variantRepo, pricing: pricing}
}

// VariantInput 商品规格输入
type VariantInput struct {
	ID        uint
	SKU       string
	Name      string
	Price     models.Money
	StockQty  int
	InStock   *bool
	IsActive  *bool
	SortOrder int
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	BasePrice   models.Money
	Images      []string
	Tags        []string
	IsActive    *bool
	SortOrder   int
	Variants    []VariantInput
}

// VariantView 带活动价的规格视图
type VariantView struct {
	Variant        models.ProductVariant `json:"variant"`
	UnitPrice      models.Money          `json:"unit_price"`
	CompareAtPrice models.Money          `json:"compare_at_price"`
	OnSale         bool                  `json:"on_sale"`
	CampaignName   string                `json:"campaign_name,omitempty"`
}

// ProductDetail 商品详情视图
type ProductDetail struct {
	Product  *models.Product `json:"product"`
	Variants []VariantView   `json:"variants"`
}

// ListPublic 获取公开商品列表
func (s *ProductService) ListPublic(categoryID uint, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(search),
		OnlyActive:   true,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 获取公开商品详情，每个规格附当前活动价
func (s *ProductService) GetPublicBySlug(slug string) (*ProductDetail, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	views := make([]VariantView, 0, len(product.Variants))
	for _, variant := range product.Variants {
		if !variant.IsActive {
			continue
		}
		resolved, err := s.pricing.ResolveSalePrice(product.ID, variant.ID, variant.Price, now)
		if err != nil {
			return nil, err
		}
		view := VariantView{
			Variant:        variant,
			UnitPrice:      resolved.UnitPrice,
			CompareAtPrice: resolved.CompareAtPrice,
			OnSale:         resolved.OnSale(),
		}
		if resolved.OnSale() && resolved.CampaignItem.Campaign != nil {
			view.CampaignName = resolved.CampaignItem.Campaign.Name
		}
		views = append(views, view)
	}
	return &ProductDetail{Product: product, Variants: views}, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(categoryID uint, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(search),
		WithCategory: true,
		WithVariants: true,
	}
	return s.repo.List(filter)
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func validateProductInput(input *ProductInput) error {
	input.Slug = strings.TrimSpace(input.Slug)
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" || input.Name == "" || input.CategoryID == 0 {
		return ErrProductInvalid
	}
	if input.BasePrice.Decimal.LessThanOrEqual(decimal.Zero) {
		return ErrProductPriceInvalid
	}
	seen := make(map[string]bool, len(input.Variants))
	for i := range input.Variants {
		v := &input.Variants[i]
		v.SKU = strings.TrimSpace(v.SKU)
		if v.SKU == "" || seen[v.SKU] {
			return ErrVariantInvalid
		}
		seen[v.SKU] = true
		if v.Price.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrProductPriceInvalid
		}
	}
	return nil
}

// Create 创建商品及规格
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	exist, err := s.repo.GetBySlug(input.Slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := models.Product{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Images:      models.StringArray(input.Images),
		Tags:        models.StringArray(input.Tags),
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	product.Variants = buildVariants(input.Variants)

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品主记录（规格单独维护）
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	input.Variants = nil
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	if input.Slug != product.Slug {
		dup, err := s.repo.GetBySlug(input.Slug)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrSlugExists
		}
	}

	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = input.Name
	product.Description = input.Description
	product.BasePrice = input.BasePrice
	product.Images = models.StringArray(input.Images)
	product.Tags = models.StringArray(input.Tags)
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.Variants = nil

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// UpsertVariant 创建或更新商品规格
func (s *ProductService) UpsertVariant(productID uint, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" || input.Price.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrVariantInvalid
	}

	if input.ID != 0 {
		variant, err := s.variantRepo.GetByID(input.ID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != productID {
			return nil, ErrVariantInvalid
		}
		variant.SKU = input.SKU
		variant.Name = input.Name
		variant.Price = input.Price
		variant.StockQty = input.StockQty
		variant.SortOrder = input.SortOrder
		if input.InStock != nil {
			variant.InStock = *input.InStock
		}
		if input.IsActive != nil {
			variant.IsActive = *input.IsActive
		}
		if err := s.variantRepo.Update(variant); err != nil {
			return nil, err
		}
		return variant, nil
	}

	variant := &models.ProductVariant{
		ProductID: productID,
		SKU:       input.SKU,
		Name:      input.Name,
		Price:     input.Price,
		StockQty:  input.StockQty,
		InStock:   true,
		IsActive:  true,
		SortOrder: input.SortOrder,
	}
	if input.InStock != nil {
		variant.InStock = *input.InStock
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant 删除商品规格
func (s *ProductService) DeleteVariant(productID, variantID uint) error {
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil || variant.ProductID != productID {
		return ErrVariantInvalid
	}
	return s.variantRepo.Delete(variantID)
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func buildVariants(inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, in := range inputs {
		variant := models.ProductVariant{
			SKU:       in.SKU,
			Name:      in.Name,
			Price:     in.Price,
			StockQty:  in.StockQty,
			InStock:   true,
			IsActive:  true,
			SortOrder: in.SortOrder,
		}
		if in.InStock != nil {
			variant.InStock = *in.InStock
		}
		if in.IsActive != nil {
			variant.IsActive = *in.IsActive
		}
		variants = append(variants, variant)
	}
	return variants
}
