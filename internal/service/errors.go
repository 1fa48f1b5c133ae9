package service

import "errors"

// 优惠码相关错误
var (
	ErrCouponInvalid          = errors.New("优惠码无效")
	ErrCouponNotFound         = errors.New("优惠码不存在")
	ErrCouponInactive         = errors.New("优惠码已停用")
	ErrCouponNotStarted       = errors.New("优惠码尚未生效")
	ErrCouponExpired          = errors.New("优惠码已过期")
	ErrCouponUsageLimit       = errors.New("优惠码已达使用上限")
	ErrCouponMinAmount        = errors.New("未达到优惠码使用门槛")
	ErrCouponTierRequired     = errors.New("会员等级不满足优惠码要求")
	ErrCouponPerUserLimit     = errors.New("优惠码已达个人使用上限")
	ErrCouponScopeCategory    = errors.New("优惠码不适用于该分类")
	ErrCouponScopeProduct     = errors.New("优惠码不适用于所选商品")
	ErrCouponFirstOrderOnly   = errors.New("优惠码仅限首单使用")
	ErrCouponNotStackable     = errors.New("优惠码不可与活动价同时使用")
)

// 促销活动相关错误
var (
	ErrCampaignNotFound      = errors.New("促销活动不存在")
	ErrCampaignInvalid       = errors.New("促销活动参数无效")
	ErrCampaignSlugTaken     = errors.New("促销活动标识已存在")
	ErrCampaignWindowInvalid = errors.New("促销活动时间区间无效")
	ErrCampaignItemDuplicate = errors.New("促销活动条目重复")
	ErrCampaignItemConflict  = errors.New("同一商品不能混用整品与规格条目")
	ErrCampaignOverlap       = errors.New("商品已在其他生效活动中")
	ErrCampaignModified      = errors.New("促销活动已被修改，请刷新后重试")
)

// 购物车相关错误
var (
	ErrCartNotFound     = errors.New("购物车不存在")
	ErrCartOwnerInvalid = errors.New("购物车归属无效")
	ErrCartLineInvalid  = errors.New("购物车行无效")
	ErrCartLineMissing  = errors.New("购物车行不存在")
)

// 商品目录相关错误
var (
	ErrNotFound            = errors.New("记录不存在")
	ErrSlugExists          = errors.New("唯一标识已存在")
	ErrCategoryInvalid     = errors.New("分类参数无效")
	ErrCategoryInUse       = errors.New("分类下仍有商品")
	ErrProductInvalid      = errors.New("商品参数无效")
	ErrProductPriceInvalid = errors.New("商品价格无效")
	ErrProductNotAvailable = errors.New("商品不可购买")
	ErrVariantInvalid      = errors.New("商品规格无效")
)

// 下单相关错误
var (
	ErrInvalidCheckoutItem  = errors.New("下单商品无效")
	ErrContactRequired      = errors.New("联系人信息不完整")
	ErrPaymentMethodInvalid = errors.New("支付方式无效")
	ErrOrderNoExhausted     = errors.New("订单编号生成失败")
)

// 订单相关错误
var (
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("订单状态流转不允许")
)

// 客户相关错误
var (
	ErrCustomerNotFound = errors.New("客户不存在")
)
