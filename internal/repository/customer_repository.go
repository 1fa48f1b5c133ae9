package repository

import (
	"errors"

	"github.com/haimart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByIDForUpdate(id uint) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	UpdateLoyalty(id uint, updates map[string]interface{}) error
	CreateLedgerEntry(entry *models.PointLedger) error
	CountLedgerByOrder(customerID uint, orderID uint) (int64, error)
	ListLedger(filter PointLedgerListFilter) ([]models.PointLedger, int64, error)
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID 根据ID获取客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByIDForUpdate 按ID加锁获取客户，用于积分入账的串行化
func (r *GormCustomerRepository) GetByIDForUpdate(id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByEmail 根据邮箱获取客户
func (r *GormCustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create 创建客户
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update 更新客户
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// UpdateLoyalty 更新客户的积分与消费统计字段
func (r *GormCustomerRepository) UpdateLoyalty(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error
}

// CreateLedgerEntry 追加积分流水
func (r *GormCustomerRepository) CreateLedgerEntry(entry *models.PointLedger) error {
	return r.db.Create(entry).Error
}

// CountLedgerByOrder 统计某订单产生的积分流水条数（入账幂等判断）
func (r *GormCustomerRepository) CountLedgerByOrder(customerID uint, orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PointLedger{}).
		Where("customer_id = ? AND order_id = ?", customerID, orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListLedger 获取积分流水列表
func (r *GormCustomerRepository) ListLedger(filter PointLedgerListFilter) ([]models.PointLedger, int64, error) {
	query := r.db.Model(&models.PointLedger{}).Where("customer_id = ?", filter.CustomerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var entries []models.PointLedger
	if err := query.Order("id desc").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
