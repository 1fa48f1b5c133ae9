package repository

import (
	"errors"

	"github.com/haimart-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByID(id uint) (*models.Cart, error)
	GetBySessionKey(sessionKey string) (*models.Cart, error)
	GetByCustomer(customerID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	Save(cart *models.Cart) error
	UpsertLine(line *models.CartLine) error
	UpdateLine(line *models.CartLine) error
	DeleteLine(cartID, variantID uint) error
	ClearLines(cartID uint) error
	SetCoupon(cartID uint, couponID *uint, code string, discount models.Money) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByID 根据ID获取购物车（含行）
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_lines.id asc")
	}).First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetBySessionKey 根据游客会话标识获取购物车
func (r *GormCartRepository) GetBySessionKey(sessionKey string) (*models.Cart, error) {
	if sessionKey == "" {
		return nil, nil
	}
	var cart models.Cart
	if err := r.db.Preload("Lines").Where("session_key = ?", sessionKey).
		Order("id desc").First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByCustomer 根据客户ID获取购物车
func (r *GormCartRepository) GetByCustomer(customerID uint) (*models.Cart, error) {
	if customerID == 0 {
		return nil, nil
	}
	var cart models.Cart
	if err := r.db.Preload("Lines").Where("customer_id = ?", customerID).
		Order("id desc").First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Save 保存购物车主记录（不触碰行）
func (r *GormCartRepository) Save(cart *models.Cart) error {
	return r.db.Omit("Lines").Save(cart).Error
}

// UpsertLine 添加或更新购物车行（同规格合并）
func (r *GormCartRepository) UpsertLine(line *models.CartLine) error {
	if line == nil {
		return nil
	}
	var existing models.CartLine
	err := r.db.Where("cart_id = ? AND variant_id = ?", line.CartID, line.VariantID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(line).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"quantity":         line.Quantity,
		"unit_price":       line.UnitPrice,
		"compare_at_price": line.CompareAtPrice,
		"in_stock":         line.InStock,
	}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return err
	}
	line.ID = existing.ID
	return nil
}

// UpdateLine 保存购物车行
func (r *GormCartRepository) UpdateLine(line *models.CartLine) error {
	return r.db.Save(line).Error
}

// DeleteLine 删除购物车行
func (r *GormCartRepository) DeleteLine(cartID, variantID uint) error {
	return r.db.Where("cart_id = ? AND variant_id = ?", cartID, variantID).Delete(&models.CartLine{}).Error
}

// ClearLines 清空购物车行
func (r *GormCartRepository) ClearLines(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error
}

// SetCoupon 设置或清除购物车上已应用的优惠码
func (r *GormCartRepository) SetCoupon(cartID uint, couponID *uint, code string, discount models.Money) error {
	updates := map[string]interface{}{
		"coupon_id":       couponID,
		"coupon_code":     code,
		"discount_amount": discount,
	}
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(updates).Error
}

// Delete 删除购物车及行
func (r *GormCartRepository) Delete(id uint) error {
	if err := r.ClearLines(id); err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, id).Error
}
