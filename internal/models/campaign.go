package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign 促销活动（限时抢购/换季促销等）
type Campaign struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`       // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                   // 活动名称
	Description string         `gorm:"type:text" json:"description"`           // 活动描述
	Type        string         `gorm:"not null" json:"type"`                   // 类型（flash_sale/seasonal/clearance/member_only）
	StartsAt    time.Time      `gorm:"index;not null" json:"starts_at"`        // 生效时间
	EndsAt      time.Time      `gorm:"index;not null" json:"ends_at"`          // 失效时间
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	IsFeatured  bool           `gorm:"not null;default:false" json:"is_featured"` // 是否首页推荐
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Items []CampaignItem `gorm:"foreignKey:CampaignID" json:"items,omitempty"` // 活动条目
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campaigns"
}

// WindowContains 活动窗口是否覆盖给定时刻（首尾均含）
func (c *Campaign) WindowContains(now time.Time) bool {
	return !now.Before(c.StartsAt) && !now.After(c.EndsAt)
}

// WindowOverlaps 活动窗口是否与给定区间相交。
// 窗口首尾均生效，因此边界时刻相接也视为相交。
func (c *Campaign) WindowOverlaps(startsAt, endsAt time.Time) bool {
	return !c.StartsAt.After(endsAt) && !startsAt.After(c.EndsAt)
}

// CampaignItem 活动条目（某商品或某规格的活动价）
type CampaignItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                             // 主键
	CampaignID    uint           `gorm:"index;not null" json:"campaign_id"`                                // 活动ID
	ProductID     uint           `gorm:"index;not null" json:"product_id"`                                 // 商品ID
	VariantID     *uint          `gorm:"index" json:"variant_id,omitempty"`                                // 规格ID（空表示覆盖全部规格）
	SalePrice     Money          `gorm:"type:decimal(20,2);not null" json:"sale_price"`                    // 活动单价
	OriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`      // 划线原价（0 表示未填写）
	MaxQuantity   int            `gorm:"not null;default:0" json:"max_quantity"`                           // 活动限量（0 表示不限量）
	SoldQuantity  int            `gorm:"not null;default:0" json:"sold_quantity"`                          // 活动已售量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"` // 关联活动
}

// TableName 指定表名
func (CampaignItem) TableName() string {
	return "campaign_items"
}

// Scope 返回条目的规格适用范围
func (i *CampaignItem) Scope() VariantScope {
	if i.VariantID == nil {
		return AllVariants()
	}
	return SpecificVariant(*i.VariantID)
}

// HasStock 活动限量是否还有余量
func (i *CampaignItem) HasStock() bool {
	return i.MaxQuantity == 0 || i.SoldQuantity < i.MaxQuantity
}

// VariantScope 活动条目的规格适用范围：覆盖全部规格，或仅针对某一规格。
// 封装数据库中可空的 variant_id 列，避免业务代码到处判空。
type VariantScope struct {
	variantID uint
	all       bool
}

// AllVariants 覆盖商品全部规格
func AllVariants() VariantScope {
	return VariantScope{all: true}
}

// SpecificVariant 仅针对指定规格
func SpecificVariant(variantID uint) VariantScope {
	return VariantScope{variantID: variantID}
}

// IsAll 是否覆盖全部规格
func (s VariantScope) IsAll() bool {
	return s.all
}

// VariantID 返回指定的规格ID；覆盖全部规格时第二个返回值为 false
func (s VariantScope) VariantID() (uint, bool) {
	if s.all {
		return 0, false
	}
	return s.variantID, true
}

// Matches 范围是否命中给定规格
func (s VariantScope) Matches(variantID uint) bool {
	return s.all || s.variantID == variantID
}

// Overlaps 两个范围是否存在交集（任一侧覆盖全部规格即视为相交）
func (s VariantScope) Overlaps(other VariantScope) bool {
	if s.all || other.all {
		return true
	}
	return s.variantID == other.variantID
}
