package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMomo         = "momo"
	PaymentMethodZaloPay      = "zalopay"
	PaymentMethodGateway      = "gateway"
)

// 支持的支付方式集合
var SupportedPaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodBankTransfer,
	PaymentMethodMomo,
	PaymentMethodZaloPay,
	PaymentMethodGateway,
}

// 促销活动类型常量
const (
	CampaignTypeFlashSale  = "flash_sale"
	CampaignTypeSeasonal   = "seasonal"
	CampaignTypeClearance  = "clearance"
	CampaignTypeMemberOnly = "member_only"
)

// 支持的促销活动类型集合
var SupportedCampaignTypes = []string{
	CampaignTypeFlashSale,
	CampaignTypeSeasonal,
	CampaignTypeClearance,
	CampaignTypeMemberOnly,
}

// 优惠码类型常量
const (
	CouponTypePercent      = "percent"
	CouponTypeFixed        = "fixed"
	CouponTypeFreeShipping = "free_shipping"
)

// 会员等级常量（只升不降）
const (
	TierStandard = "standard"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierDiamond  = "diamond"
)

// 会员等级从低到高的顺序
var TierLadder = []string{TierStandard, TierSilver, TierGold, TierDiamond}

// TierRank 返回等级在阶梯中的序号，未知等级视为最低档
func TierRank(tier string) int {
	for i, t := range TierLadder {
		if t == tier {
			return i
		}
	}
	return 0
}

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderLoyaltyAccrue = "order:loyalty_accrue"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "hm"
)

// 币种常量
const (
	SiteCurrencyDefault = "VND"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
	LocaleViVN = "vi-VN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleViVN, LocaleZhCN, LocaleEnUS}
