package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠码管理服务
type CouponAdminService struct {
	repo repository.CouponRepository
}

// NewCouponAdminService 创建优惠码管理服务
func NewCouponAdminService(repo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo}
}

// CouponAdminInput 创建/更新优惠码输入
type CouponAdminInput struct {
	Code              string
	Name              string
	Type              string
	Value             models.Money
	MinOrderAmount    models.Money
	MaxDiscount       models.Money
	UsageLimit        int
	PerUserLimit      int
	MinTier           string
	CategoryID        *uint
	ScopeProductIDs   []uint
	FirstOrderOnly    bool
	StackableWithSale *bool
	StartsAt          *time.Time
	EndsAt            *time.Time
	IsActive          *bool
}

func validateCouponInput(input *CouponAdminInput) error {
	input.Code = NormalizeCouponCode(input.Code)
	if input.Code == "" {
		return ErrCouponInvalid
	}
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	switch input.Type {
	case constants.CouponTypePercent:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) ||
			input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalid
		}
	case constants.CouponTypeFixed, constants.CouponTypeFreeShipping:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponInvalid
		}
	default:
		return ErrCouponInvalid
	}
	if input.MinTier != "" {
		valid := false
		for _, tier := range constants.TierLadder {
			if tier == input.MinTier {
				valid = true
				break
			}
		}
		if !valid {
			return ErrCouponInvalid
		}
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return ErrCouponInvalid
	}
	return nil
}

// Create 创建优惠码
func (s *CouponAdminService) Create(input CouponAdminInput) (*models.Coupon, error) {
	if err := validateCouponInput(&input); err != nil {
		return nil, err
	}

	exist, err := s.repo.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponInvalid
	}

	stackable := true
	if input.StackableWithSale != nil {
		stackable = *input.StackableWithSale
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	coupon := &models.Coupon{
		Code:              input.Code,
		Name:              strings.TrimSpace(input.Name),
		Type:              input.Type,
		Value:             input.Value,
		MinOrderAmount:    input.MinOrderAmount,
		MaxDiscount:       input.MaxDiscount,
		UsageLimit:        input.UsageLimit,
		UsedCount:         0,
		PerUserLimit:      input.PerUserLimit,
		MinTier:           input.MinTier,
		CategoryID:        input.CategoryID,
		ScopeProductIDs:   encodeProductScope(input.ScopeProductIDs),
		FirstOrderOnly:    input.FirstOrderOnly,
		StackableWithSale: stackable,
		StartsAt:          input.StartsAt,
		EndsAt:            input.EndsAt,
		IsActive:          isActive,
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠码
func (s *CouponAdminService) Update(id uint, input CouponAdminInput) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}

	if err := validateCouponInput(&input); err != nil {
		return nil, err
	}
	if input.Code != existing.Code {
		dup, err := s.repo.GetByCode(input.Code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrCouponInvalid
		}
	}

	if input.StackableWithSale != nil {
		existing.StackableWithSale = *input.StackableWithSale
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	existing.Code = input.Code
	existing.Name = strings.TrimSpace(input.Name)
	existing.Type = input.Type
	existing.Value = input.Value
	existing.MinOrderAmount = input.MinOrderAmount
	existing.MaxDiscount = input.MaxDiscount
	existing.UsageLimit = input.UsageLimit
	existing.PerUserLimit = input.PerUserLimit
	existing.MinTier = input.MinTier
	existing.CategoryID = input.CategoryID
	existing.ScopeProductIDs = encodeProductScope(input.ScopeProductIDs)
	existing.FirstOrderOnly = input.FirstOrderOnly
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除优惠码
func (s *CouponAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrCouponInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取优惠码详情
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List 获取优惠码列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

func encodeProductScope(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return ""
	}
	return string(payload)
}
