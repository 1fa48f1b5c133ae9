package service

import (
	"time"

	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PricingService 活动价解析服务
type PricingService struct {
	campaignRepo repository.CampaignRepository
}

// NewPricingService 创建活动价解析服务
func NewPricingService(campaignRepo repository.CampaignRepository) *PricingService {
	return &PricingService{campaignRepo: campaignRepo}
}

// ResolvedPrice 价格解析结果
type ResolvedPrice struct {
	UnitPrice      models.Money         // 成交单价
	CompareAtPrice models.Money         // 划线价（零值表示无划线价）
	CampaignItem   *models.CampaignItem // 命中的活动条目（未命中为 nil）
}

// OnSale 是否命中活动价
func (p *ResolvedPrice) OnSale() bool {
	return p != nil && p.CampaignItem != nil
}

// ResolveSalePrice 解析某规格在给定时刻的成交价。
// 同一商品存在多个生效条目时，规格专属条目优先于整品条目，
// 同级条目取活动价最低者。相同输入始终得到相同结果。
func (s *PricingService) ResolveSalePrice(productID, variantID uint, basePrice models.Money, now time.Time) (*ResolvedPrice, error) {
	items, err := s.campaignRepo.ListActiveItemsByProduct(productID, now)
	if err != nil {
		return nil, err
	}

	best := pickBestCampaignItem(items, variantID)
	if best == nil {
		return &ResolvedPrice{UnitPrice: basePrice}, nil
	}

	return &ResolvedPrice{
		UnitPrice:      best.SalePrice,
		CompareAtPrice: resolveCompareAtPrice(best, basePrice),
		CampaignItem:   best,
	}, nil
}

// ListActiveSaleItems 批量查询生效活动价（规格专属条目在前，其后按活动价升序）
func (s *PricingService) ListActiveSaleItems(productIDs, variantIDs []uint, now time.Time) ([]repository.ActiveSaleItem, error) {
	return s.campaignRepo.ListActiveSaleItems(productIDs, variantIDs, now)
}

// ListLiveCampaigns 获取当前正在进行的活动（含条目），用于店面促销页
func (s *PricingService) ListLiveCampaigns(now time.Time, page, pageSize int) ([]models.Campaign, int64, error) {
	return s.campaignRepo.List(repository.CampaignListFilter{
		OnlyLive:  true,
		Now:       now,
		Page:      page,
		PageSize:  pageSize,
		WithItems: true,
	})
}

// pickBestCampaignItem 在候选条目中选出最优者：
// 仅考虑范围命中且限量未售罄的条目；规格专属优先；同级取最低活动价。
func pickBestCampaignItem(items []models.CampaignItem, variantID uint) *models.CampaignItem {
	var best *models.CampaignItem
	bestSpecific := false
	for i := range items {
		item := &items[i]
		if !item.Scope().Matches(variantID) || !item.HasStock() {
			continue
		}
		_, specific := item.Scope().VariantID()
		switch {
		case best == nil:
			best = item
			bestSpecific = specific
		case specific && !bestSpecific:
			best = item
			bestSpecific = true
		case specific == bestSpecific && item.SalePrice.Decimal.LessThan(best.SalePrice.Decimal):
			best = item
		}
	}
	return best
}

// resolveCompareAtPrice 计算划线价：优先用条目录入的原价，缺失或低于活动价
// （录入异常）时回退到商品基准价。
func resolveCompareAtPrice(item *models.CampaignItem, basePrice models.Money) models.Money {
	original := item.OriginalPrice
	if original.Decimal.GreaterThan(decimal.Zero) && !original.Decimal.LessThan(item.SalePrice.Decimal) {
		return original
	}
	return basePrice
}
