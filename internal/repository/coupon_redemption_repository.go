package repository

import (
	"github.com/haimart-next/internal/models"

	"gorm.io/gorm"
)

// CouponRedemptionRepository 优惠码核销记录数据访问接口
type CouponRedemptionRepository interface {
	Create(redemption *models.CouponRedemption) error
	CountByCustomer(couponID, customerID uint) (int64, error)
	ListByOrderID(orderID uint) ([]models.CouponRedemption, error)
	ListByCoupon(couponID uint, page, pageSize int) ([]models.CouponRedemption, int64, error)
	WithTx(tx *gorm.DB) *GormCouponRedemptionRepository
}

// GormCouponRedemptionRepository GORM 实现
type GormCouponRedemptionRepository struct {
	db *gorm.DB
}

// NewCouponRedemptionRepository 创建优惠码核销记录仓库
func NewCouponRedemptionRepository(db *gorm.DB) *GormCouponRedemptionRepository {
	return &GormCouponRedemptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRedemptionRepository) WithTx(tx *gorm.DB) *GormCouponRedemptionRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRedemptionRepository{db: tx}
}

// Create 创建核销记录
func (r *GormCouponRedemptionRepository) Create(redemption *models.CouponRedemption) error {
	return r.db.Create(redemption).Error
}

// CountByCustomer 获取客户对某优惠码的核销次数
func (r *GormCouponRedemptionRepository) CountByCustomer(couponID, customerID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByOrderID 获取订单核销记录
func (r *GormCouponRedemptionRepository) ListByOrderID(orderID uint) ([]models.CouponRedemption, error) {
	var redemptions []models.CouponRedemption
	if err := r.db.Where("order_id = ?", orderID).Find(&redemptions).Error; err != nil {
		return nil, err
	}
	return redemptions, nil
}

// ListByCoupon 获取优惠码核销记录列表
func (r *GormCouponRedemptionRepository) ListByCoupon(couponID uint, page, pageSize int) ([]models.CouponRedemption, int64, error) {
	query := r.db.Model(&models.CouponRedemption{}).Where("coupon_id = ?", couponID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var redemptions []models.CouponRedemption
	if err := query.Order("id desc").Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}
	return redemptions, total, nil
}
