package service

import (
	"strings"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CampaignAdminService 促销活动管理服务
type CampaignAdminService struct {
	repo repository.CampaignRepository
}

// NewCampaignAdminService 创建促销活动管理服务
func NewCampaignAdminService(repo repository.CampaignRepository) *CampaignAdminService {
	return &CampaignAdminService{repo: repo}
}

// CampaignItemInput 活动条目输入
type CampaignItemInput struct {
	ProductID     uint
	VariantID     *uint
	SalePrice     models.Money
	OriginalPrice models.Money
	MaxQuantity   int
}

// CampaignAdminInput 创建/更新活动输入
type CampaignAdminInput struct {
	Slug        string
	Name        string
	Description string
	Type        string
	StartsAt    time.Time
	EndsAt      time.Time
	IsActive    *bool
	IsFeatured  bool
	Items       []CampaignItemInput
	// UpdatedAt 更新时携带读取时刻的版本，用于并发修改检测
	UpdatedAt *time.Time
}

func validateCampaignInput(input *CampaignAdminInput) error {
	input.Slug = strings.TrimSpace(input.Slug)
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" || input.Name == "" {
		return ErrCampaignInvalid
	}
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	valid := false
	for _, t := range constants.SupportedCampaignTypes {
		if t == input.Type {
			valid = true
			break
		}
	}
	if !valid {
		return ErrCampaignInvalid
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() || !input.StartsAt.Before(input.EndsAt) {
		return ErrCampaignWindowInvalid
	}
	return validateCampaignItems(input.Items)
}

// validateCampaignItems 校验活动内部条目约束：
// (商品, 规格) 组合唯一；同一商品不得同时出现整品条目和规格条目；活动价必须为正。
func validateCampaignItems(items []CampaignItemInput) error {
	if len(items) == 0 {
		return ErrCampaignInvalid
	}
	type productUsage struct {
		wide     bool
		specific bool
	}
	seen := make(map[uint]map[uint]bool, len(items))
	usage := make(map[uint]*productUsage, len(items))
	for _, item := range items {
		if item.ProductID == 0 {
			return ErrCampaignInvalid
		}
		if item.SalePrice.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCampaignInvalid
		}
		variantKey := uint(0)
		if item.VariantID != nil {
			if *item.VariantID == 0 {
				return ErrCampaignInvalid
			}
			variantKey = *item.VariantID
		}
		if seen[item.ProductID] == nil {
			seen[item.ProductID] = make(map[uint]bool)
		}
		if seen[item.ProductID][variantKey] {
			return ErrCampaignItemDuplicate
		}
		seen[item.ProductID][variantKey] = true

		if usage[item.ProductID] == nil {
			usage[item.ProductID] = &productUsage{}
		}
		if item.VariantID == nil {
			usage[item.ProductID].wide = true
		} else {
			usage[item.ProductID].specific = true
		}
		if usage[item.ProductID].wide && usage[item.ProductID].specific {
			return ErrCampaignItemConflict
		}
	}
	return nil
}

// checkOverlap 在事务内加锁检查条目与其他生效活动的排他冲突。
// 两个条目冲突的条件：同一商品、活动窗口相交、规格范围有交集
// （任一侧为整品条目即视为相交）。
func checkOverlap(repoTx *repository.GormCampaignRepository, items []CampaignItemInput, startsAt, endsAt time.Time, excludeCampaignID uint) error {
	productIDs := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	others, err := repoTx.ListOverlappingItems(productIDs, startsAt, endsAt, excludeCampaignID)
	if err != nil {
		return err
	}
	if len(others) == 0 {
		return nil
	}
	for _, item := range items {
		scope := models.AllVariants()
		if item.VariantID != nil {
			scope = models.SpecificVariant(*item.VariantID)
		}
		for i := range others {
			if others[i].ProductID != item.ProductID {
				continue
			}
			if scope.Overlaps(others[i].Scope()) {
				return ErrCampaignOverlap
			}
		}
	}
	return nil
}

func buildCampaignItems(inputs []CampaignItemInput) []models.CampaignItem {
	items := make([]models.CampaignItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.CampaignItem{
			ProductID:     in.ProductID,
			VariantID:     in.VariantID,
			SalePrice:     in.SalePrice,
			OriginalPrice: in.OriginalPrice,
			MaxQuantity:   in.MaxQuantity,
		})
	}
	return items
}

// Create 创建活动。排他校验与写入在同一事务内完成，防止并发创建互相放行。
func (s *CampaignAdminService) Create(input CampaignAdminInput) (*models.Campaign, error) {
	if err := validateCampaignInput(&input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	campaign := &models.Campaign{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		IsActive:    isActive,
		IsFeatured:  input.IsFeatured,
		Items:       buildCampaignItems(input.Items),
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		exist, err := repoTx.GetBySlug(campaign.Slug)
		if err != nil {
			return err
		}
		if exist != nil {
			return ErrCampaignSlugTaken
		}
		if campaign.IsActive {
			if err := checkOverlap(repoTx, input.Items, campaign.StartsAt, campaign.EndsAt, 0); err != nil {
				return err
			}
		}
		return repoTx.Create(campaign)
	})
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// Update 更新活动（整体替换条目）。携带版本不一致时拒绝，避免覆盖他人修改。
func (s *CampaignAdminService) Update(id uint, input CampaignAdminInput) (*models.Campaign, error) {
	if id == 0 {
		return nil, ErrCampaignInvalid
	}
	if err := validateCampaignInput(&input); err != nil {
		return nil, err
	}

	var updated *models.Campaign
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		existing, err := repoTx.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrCampaignNotFound
		}
		if input.UpdatedAt != nil && !existing.UpdatedAt.Truncate(time.Second).Equal(input.UpdatedAt.Truncate(time.Second)) {
			return ErrCampaignModified
		}
		if input.Slug != existing.Slug {
			dup, err := repoTx.GetBySlug(input.Slug)
			if err != nil {
				return err
			}
			if dup != nil {
				return ErrCampaignSlugTaken
			}
		}

		existing.Slug = input.Slug
		existing.Name = input.Name
		existing.Description = input.Description
		existing.Type = input.Type
		existing.StartsAt = input.StartsAt.UTC()
		existing.EndsAt = input.EndsAt.UTC()
		if input.IsActive != nil {
			existing.IsActive = *input.IsActive
		}
		existing.IsFeatured = input.IsFeatured

		if existing.IsActive {
			if err := checkOverlap(repoTx, input.Items, existing.StartsAt, existing.EndsAt, existing.ID); err != nil {
				return err
			}
		}
		if err := repoTx.Update(existing); err != nil {
			return err
		}
		if err := repoTx.ReplaceItems(existing.ID, buildCampaignItems(input.Items)); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(updated.ID)
}

// Delete 删除活动
func (s *CampaignAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrCampaignInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCampaignNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取活动详情
func (s *CampaignAdminService) Get(id uint) (*models.Campaign, error) {
	campaign, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List 获取活动列表
func (s *CampaignAdminService) List(filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	return s.repo.List(filter)
}
