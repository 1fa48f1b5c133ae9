package service

import (
	"time"

	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/google/uuid"
)

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	variantRepo  repository.VariantRepository
	customerRepo repository.CustomerRepository
	pricing      *PricingService
	coupons      *CouponService
	ttlHours     int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, variantRepo repository.VariantRepository, customerRepo repository.CustomerRepository, pricing *PricingService, coupons *CouponService, ttlHours int) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		variantRepo:  variantRepo,
		customerRepo: customerRepo,
		pricing:      pricing,
		coupons:      coupons,
		ttlHours:     ttlHours,
	}
}

// 同步警告类型
const (
	CartWarnLineRemoved   = "line_removed"
	CartWarnPriceChanged  = "price_changed"
	CartWarnCouponRemoved = "coupon_removed"
)

// SyncWarning 购物车同步产生的警告，由展示层按客户语言本地化
type SyncWarning struct {
	Kind        string       `json:"kind"`
	ProductName string       `json:"product_name,omitempty"`
	CouponCode  string       `json:"coupon_code,omitempty"`
	OldPrice    models.Money `json:"old_price"`
	NewPrice    models.Money `json:"new_price"`
}

func (s *CartService) resolveTTL() time.Duration {
	hours := s.ttlHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

// CreateCart 创建购物车。登录客户以 customer_id 持有；
// 游客生成一次性 session_key，二者不会同时存在。
func (s *CartService) CreateCart(customerID *uint) (*models.Cart, error) {
	expiresAt := time.Now().UTC().Add(s.resolveTTL())
	cart := &models.Cart{ExpiresAt: &expiresAt}
	if customerID != nil && *customerID != 0 {
		cart.CustomerID = customerID
	} else {
		cart.SessionKey = uuid.NewString()
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) loadCart(cartID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.ExpiresAt != nil && time.Now().After(*cart.ExpiresAt) {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// GetCart 获取购物车
func (s *CartService) GetCart(cartID uint) (*models.Cart, error) {
	return s.loadCart(cartID)
}

// AddLine 向购物车添加规格（同规格合并数量），单价按当前活动价落快照
func (s *CartService) AddLine(cartID, variantID uint, quantity int) (*models.Cart, error) {
	if variantID == 0 || quantity <= 0 {
		return nil, ErrCartLineInvalid
	}
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}

	variant, err := s.variantRepo.GetWithProduct(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || !variant.IsActive {
		return nil, ErrVariantInvalid
	}
	if variant.Product == nil || !variant.Product.IsActive {
		return nil, ErrProductNotAvailable
	}

	resolved, err := s.pricing.ResolveSalePrice(variant.ProductID, variant.ID, variant.Price, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		CartID:         cart.ID,
		ProductID:      variant.ProductID,
		VariantID:      variant.ID,
		ProductName:    variant.Product.Name,
		VariantName:    variant.Name,
		SKU:            variant.SKU,
		UnitPrice:      resolved.UnitPrice,
		CompareAtPrice: resolved.CompareAtPrice,
		Quantity:       quantity,
		InStock:        variant.InStock,
	}
	if len(variant.Product.Images) > 0 {
		line.ImageURL = variant.Product.Images[0]
	}
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == variantID {
			line.Quantity += cart.Lines[i].Quantity
			break
		}
	}
	if err := s.cartRepo.UpsertLine(line); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(cart.ID)
}

// UpdateLineQuantity 调整行数量，数量归零等价于删除
func (s *CartService) UpdateLineQuantity(cartID, variantID uint, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, ErrCartLineInvalid
	}
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		return s.RemoveLine(cartID, variantID)
	}
	for i := range cart.Lines {
		if cart.Lines[i].VariantID == variantID {
			cart.Lines[i].Quantity = quantity
			if err := s.cartRepo.UpdateLine(&cart.Lines[i]); err != nil {
				return nil, err
			}
			return s.cartRepo.GetByID(cart.ID)
		}
	}
	return nil, ErrCartLineMissing
}

// RemoveLine 删除购物车行
func (s *CartService) RemoveLine(cartID, variantID uint) (*models.Cart, error) {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteLine(cart.ID, variantID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(cart.ID)
}

// ApplyCoupon 对购物车应用优惠码；校验失败返回对应哨兵错误
func (s *CartService) ApplyCoupon(cartID uint, code string) (*models.Cart, error) {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.validateCartCoupon(cart, code)
	if err != nil {
		return nil, err
	}
	if !outcome.Valid {
		return nil, CouponReasonError(outcome.ReasonKey)
	}

	if err := s.cartRepo.SetCoupon(cart.ID, &outcome.CouponID, outcome.Coupon.Code, outcome.Amount); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(cart.ID)
}

// RemoveCoupon 移除购物车上的优惠码
func (s *CartService) RemoveCoupon(cartID uint) (*models.Cart, error) {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetCoupon(cart.ID, nil, "", models.Money{}); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(cart.ID)
}

// Sync 将购物车与商品目录对齐：
// 规格已下架或商品不可售的行直接移除并告警；价格变化的行重写单价与
// 划线价并告警；已应用的优惠码失效时一并移除。对齐后的购物车再跑一次
// Sync 不产生任何变化。
func (s *CartService) Sync(cartID uint) (*models.Cart, []SyncWarning, error) {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	warnings := make([]SyncWarning, 0)

	for i := range cart.Lines {
		line := &cart.Lines[i]
		variant, err := s.variantRepo.GetWithProduct(line.VariantID)
		if err != nil {
			return nil, nil, err
		}
		if variant == nil || !variant.IsActive || variant.Product == nil || !variant.Product.IsActive {
			if err := s.cartRepo.DeleteLine(cart.ID, line.VariantID); err != nil {
				return nil, nil, err
			}
			warnings = append(warnings, SyncWarning{
				Kind:        CartWarnLineRemoved,
				ProductName: line.ProductName,
			})
			continue
		}

		resolved, err := s.pricing.ResolveSalePrice(variant.ProductID, variant.ID, variant.Price, now)
		if err != nil {
			return nil, nil, err
		}
		priceChanged := !resolved.UnitPrice.Decimal.Equal(line.UnitPrice.Decimal)
		compareChanged := !resolved.CompareAtPrice.Decimal.Equal(line.CompareAtPrice.Decimal)
		stockChanged := variant.InStock != line.InStock
		if priceChanged || compareChanged || stockChanged {
			if priceChanged {
				warnings = append(warnings, SyncWarning{
					Kind:        CartWarnPriceChanged,
					ProductName: line.ProductName,
					OldPrice:    line.UnitPrice,
					NewPrice:    resolved.UnitPrice,
				})
			}
			line.UnitPrice = resolved.UnitPrice
			line.CompareAtPrice = resolved.CompareAtPrice
			line.InStock = variant.InStock
			if err := s.cartRepo.UpdateLine(line); err != nil {
				return nil, nil, err
			}
		}
	}

	cart, err = s.cartRepo.GetByID(cart.ID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}

	if cart.CouponCode != "" {
		warning, err := s.resyncCoupon(cart)
		if err != nil {
			return nil, nil, err
		}
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		cart, err = s.cartRepo.GetByID(cart.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	return cart, warnings, nil
}

// resyncCoupon 行对齐后重算优惠金额；优惠码已失效时移除并返回警告
func (s *CartService) resyncCoupon(cart *models.Cart) (*SyncWarning, error) {
	outcome, err := s.validateCartCoupon(cart, cart.CouponCode)
	if err != nil {
		return nil, err
	}
	if !outcome.Valid {
		code := cart.CouponCode
		if err := s.cartRepo.SetCoupon(cart.ID, nil, "", models.Money{}); err != nil {
			return nil, err
		}
		return &SyncWarning{Kind: CartWarnCouponRemoved, CouponCode: code}, nil
	}
	if !outcome.Amount.Decimal.Equal(cart.DiscountAmount.Decimal) {
		if err := s.cartRepo.SetCoupon(cart.ID, &outcome.CouponID, outcome.Coupon.Code, outcome.Amount); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Clear 清空购物车（下单成功后调用）
func (s *CartService) Clear(cartID uint) error {
	if err := s.cartRepo.ClearLines(cartID); err != nil {
		return err
	}
	return s.cartRepo.SetCoupon(cartID, nil, "", models.Money{})
}

func (s *CartService) validateCartCoupon(cart *models.Cart, code string) (*ValidationOutcome, error) {
	var customer *models.Customer
	var err error
	if cart.CustomerID != nil {
		customer, err = s.customerRepo.GetByID(*cart.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	categoryIDs, err := s.cartCategoryIDs(cart)
	if err != nil {
		return nil, err
	}
	return s.coupons.Validate(ValidateCouponInput{
		Code:        code,
		CartTotal:   cart.Subtotal(),
		ProductIDs:  cartProductIDs(cart),
		CategoryIDs: categoryIDs,
		Customer:    customer,
	})
}

func cartProductIDs(cart *models.Cart) []uint {
	ids := make([]uint, 0, len(cart.Lines))
	seen := make(map[uint]struct{}, len(cart.Lines))
	for _, line := range cart.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func (s *CartService) cartCategoryIDs(cart *models.Cart) ([]uint, error) {
	ids := make([]uint, 0, len(cart.Lines))
	seen := make(map[uint]struct{})
	for _, line := range cart.Lines {
		variant, err := s.variantRepo.GetWithProduct(line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.Product == nil {
			continue
		}
		if _, ok := seen[variant.Product.CategoryID]; ok {
			continue
		}
		seen[variant.Product.CategoryID] = struct{}{}
		ids = append(ids, variant.Product.CategoryID)
	}
	return ids, nil
}
