package repository

import (
	"errors"
	"time"

	"github.com/haimart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignRepository 促销活动数据访问接口
type CampaignRepository interface {
	GetByID(id uint) (*models.Campaign, error)
	GetBySlug(slug string) (*models.Campaign, error)
	Create(campaign *models.Campaign) error
	Update(campaign *models.Campaign) error
	ReplaceItems(campaignID uint, items []models.CampaignItem) error
	Delete(id uint) error
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
	ListActiveItemsByProduct(productID uint, now time.Time) ([]models.CampaignItem, error)
	ListActiveSaleItems(productIDs, variantIDs []uint, now time.Time) ([]ActiveSaleItem, error)
	ListOverlappingItems(productIDs []uint, startsAt, endsAt time.Time, excludeCampaignID uint) ([]models.CampaignItem, error)
	IncrementSoldQuantity(itemID uint, delta int) error
	WithTx(tx *gorm.DB) *GormCampaignRepository
}

// CampaignListFilter 促销活动列表筛选
type CampaignListFilter struct {
	Type       string
	IsActive   *bool
	OnlyLive   bool
	Now        time.Time
	Page       int
	PageSize   int
	WithItems  bool
}

// ActiveSaleItem 生效中的活动价条目（联查活动信息后的展示行）
type ActiveSaleItem struct {
	CampaignID    uint         `json:"campaign_id"`
	CampaignName  string       `json:"campaign_name"`
	CampaignType  string       `json:"campaign_type"`
	ItemID        uint         `json:"item_id"`
	ProductID     uint         `json:"product_id"`
	VariantID     *uint        `json:"variant_id,omitempty"`
	SalePrice     models.Money `json:"sale_price"`
	OriginalPrice models.Money `json:"original_price"`
	MaxQuantity   int          `json:"max_quantity"`
	SoldQuantity  int          `json:"sold_quantity"`
	EndsAt        time.Time    `json:"ends_at"`
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建促销活动仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) *GormCampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// GetByID 根据ID获取活动（含条目）
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Preload("Items").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetBySlug 根据唯一标识获取活动
func (r *GormCampaignRepository) GetBySlug(slug string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Preload("Items").Where("slug = ?", slug).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// Create 创建活动（条目随主记录一并写入）
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// Update 更新活动主记录（不触碰条目）
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Omit("Items").Save(campaign).Error
}

// ReplaceItems 整体替换活动条目
func (r *GormCampaignRepository) ReplaceItems(campaignID uint, items []models.CampaignItem) error {
	if err := r.db.Where("campaign_id = ?", campaignID).Delete(&models.CampaignItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].CampaignID = campaignID
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// Delete 删除活动及条目
func (r *GormCampaignRepository) Delete(id uint) error {
	if err := r.db.Where("campaign_id = ?", id).Delete(&models.CampaignItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Campaign{}, id).Error
}

// List 获取活动列表
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	query := r.db.Model(&models.Campaign{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.OnlyLive {
		now := filter.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		query = query.Where("is_active = ? AND starts_at <= ? AND ends_at >= ?", true, now, now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if filter.WithItems {
		query = query.Preload("Items")
	}
	if err := query.Order("starts_at desc, id desc").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// ListActiveItemsByProduct 获取商品当前生效的活动条目
func (r *GormCampaignRepository) ListActiveItemsByProduct(productID uint, now time.Time) ([]models.CampaignItem, error) {
	var items []models.CampaignItem
	if err := r.db.Model(&models.CampaignItem{}).
		Joins("JOIN campaigns ON campaigns.id = campaign_items.campaign_id").
		Where("campaign_items.product_id = ?", productID).
		Where("campaigns.is_active = ?", true).
		Where("campaigns.starts_at <= ? AND campaigns.ends_at >= ?", now, now).
		Where("campaigns.deleted_at IS NULL").
		Preload("Campaign").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListActiveSaleItems 批量获取生效活动价，规格专属条目在前，其后按活动价升序
func (r *GormCampaignRepository) ListActiveSaleItems(productIDs, variantIDs []uint, now time.Time) ([]ActiveSaleItem, error) {
	if len(productIDs) == 0 && len(variantIDs) == 0 {
		return []ActiveSaleItem{}, nil
	}

	query := r.db.Model(&models.CampaignItem{}).
		Select("campaigns.id AS campaign_id",
			"campaigns.name AS campaign_name",
			"campaigns.type AS campaign_type",
			"campaigns.ends_at AS ends_at",
			"campaign_items.id AS item_id",
			"campaign_items.product_id AS product_id",
			"campaign_items.variant_id AS variant_id",
			"campaign_items.sale_price AS sale_price",
			"campaign_items.original_price AS original_price",
			"campaign_items.max_quantity AS max_quantity",
			"campaign_items.sold_quantity AS sold_quantity").
		Joins("JOIN campaigns ON campaigns.id = campaign_items.campaign_id").
		Where("campaigns.is_active = ?", true).
		Where("campaigns.starts_at <= ? AND campaigns.ends_at >= ?", now, now).
		Where("campaigns.deleted_at IS NULL")

	switch {
	case len(productIDs) > 0 && len(variantIDs) > 0:
		query = query.Where("campaign_items.product_id IN ? OR campaign_items.variant_id IN ?", productIDs, variantIDs)
	case len(productIDs) > 0:
		query = query.Where("campaign_items.product_id IN ?", productIDs)
	default:
		query = query.Where("campaign_items.variant_id IN ?", variantIDs)
	}

	var rows []ActiveSaleItem
	if err := query.
		Order("campaign_items.variant_id IS NULL, campaign_items.sale_price asc, campaign_items.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOverlappingItems 加锁查询给定商品集合在时间区间内归属其他生效活动的条目。
// 必须在事务内调用，用于活动排他校验。
func (r *GormCampaignRepository) ListOverlappingItems(productIDs []uint, startsAt, endsAt time.Time, excludeCampaignID uint) ([]models.CampaignItem, error) {
	if len(productIDs) == 0 {
		return []models.CampaignItem{}, nil
	}
	query := r.db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "campaign_items"}}).
		Model(&models.CampaignItem{}).
		Joins("JOIN campaigns ON campaigns.id = campaign_items.campaign_id").
		Where("campaign_items.product_id IN ?", productIDs).
		Where("campaigns.is_active = ?", true).
		Where("campaigns.starts_at <= ? AND campaigns.ends_at >= ?", endsAt, startsAt).
		Where("campaigns.deleted_at IS NULL")
	if excludeCampaignID != 0 {
		query = query.Where("campaigns.id <> ?", excludeCampaignID)
	}

	var items []models.CampaignItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// IncrementSoldQuantity 累加活动条目已售量（限量条目不会越过上限）
func (r *GormCampaignRepository) IncrementSoldQuantity(itemID uint, delta int) error {
	if delta <= 0 {
		delta = 1
	}
	return r.db.Model(&models.CampaignItem{}).
		Where("id = ?", itemID).
		Where("max_quantity = 0 OR sold_quantity + ? <= max_quantity", delta).
		UpdateColumn("sold_quantity", gorm.Expr("sold_quantity + ?", delta)).Error
}
