package i18n

import "github.com/haimart-next/internal/constants"

// messages 各语言消息表。key 与服务层的原因键一一对应。
var messages = map[string]map[string]string{
	constants.LocaleViVN: {
		"error.bad_request":   "Yêu cầu không hợp lệ",
		"error.unauthorized":  "Vui lòng đăng nhập",
		"error.forbidden":     "Không có quyền truy cập",
		"error.not_found":     "Không tìm thấy dữ liệu",
		"error.rate_limited":  "Thao tác quá thường xuyên, vui lòng thử lại sau %d giây",
		"error.internal":      "Lỗi hệ thống, vui lòng thử lại sau",
		"error.conflict":      "Dữ liệu đã bị thay đổi, vui lòng tải lại",

		"error.rate_limit_unavailable": "Dịch vụ giới hạn tần suất tạm thời không khả dụng",
		"error.jwt_secret_missing":     "Hệ thống chưa cấu hình khóa xác thực",
		"error.auth_header_missing":    "Thiếu thông tin xác thực",
		"error.auth_header_invalid":    "Thông tin xác thực không hợp lệ",
		"error.token_invalid":          "Phiên đăng nhập không hợp lệ",

		"error.customer_id_invalid":      "Thông tin khách hàng không hợp lệ",
		"error.customer_id_type_invalid": "Thông tin khách hàng không hợp lệ",
		"error.admin_id_invalid":         "Thông tin quản trị viên không hợp lệ",
		"error.admin_id_type_invalid":    "Thông tin quản trị viên không hợp lệ",

		"error.coupon_invalid":          "Mã giảm giá không hợp lệ",
		"error.coupon_not_found":        "Mã giảm giá không tồn tại",
		"error.coupon_inactive":         "Mã giảm giá đã bị vô hiệu hóa",
		"error.coupon_not_started":      "Mã giảm giá chưa có hiệu lực",
		"error.coupon_expired":          "Mã giảm giá đã hết hạn",
		"error.coupon_usage_limit":      "Mã giảm giá đã hết lượt sử dụng",
		"error.coupon_min_amount":       "Đơn hàng chưa đạt giá trị tối thiểu của mã giảm giá",
		"error.coupon_tier_required":    "Hạng thành viên chưa đủ điều kiện dùng mã này",
		"error.coupon_per_user_limit":   "Bạn đã dùng hết lượt cho mã giảm giá này",
		"error.coupon_scope_category":   "Mã giảm giá không áp dụng cho danh mục này",
		"error.coupon_scope_product":    "Mã giảm giá không áp dụng cho sản phẩm đã chọn",
		"error.coupon_first_order_only": "Mã giảm giá chỉ dành cho đơn hàng đầu tiên",
		"error.coupon_not_stackable":    "Mã giảm giá không dùng chung với giá khuyến mãi",

		"error.campaign_not_found":      "Chương trình khuyến mãi không tồn tại",
		"error.campaign_overlap":        "Sản phẩm đã thuộc chương trình khuyến mãi khác",
		"error.campaign_modified":       "Chương trình đã bị thay đổi, vui lòng tải lại",
		"error.campaign_invalid":        "Thông tin chương trình khuyến mãi không hợp lệ",
		"error.campaign_window_invalid": "Khoảng thời gian khuyến mãi không hợp lệ",
		"error.campaign_item_duplicate": "Chương trình có sản phẩm trùng lặp",
		"error.campaign_item_conflict":  "Không thể vừa áp dụng cho cả sản phẩm vừa cho từng phân loại",

		"error.cart_not_found":    "Giỏ hàng không tồn tại",
		"error.cart_line_invalid": "Sản phẩm trong giỏ không hợp lệ",
		"error.cart_line_missing": "Sản phẩm không có trong giỏ hàng",

		"error.product_not_available":   "Sản phẩm hiện không bán",
		"error.variant_invalid":         "Phân loại sản phẩm không hợp lệ",
		"error.product_invalid":         "Thông tin sản phẩm không hợp lệ",
		"error.product_price_invalid":   "Giá sản phẩm không hợp lệ",
		"error.slug_exists":             "Mã định danh đã tồn tại",
		"error.category_in_use":         "Danh mục vẫn còn sản phẩm, không thể xóa",

		"error.checkout_item_invalid":   "Sản phẩm đặt mua không hợp lệ",
		"error.contact_required":        "Vui lòng điền đầy đủ thông tin liên hệ",
		"error.payment_method_invalid":  "Phương thức thanh toán không hợp lệ",
		"error.order_not_found":         "Đơn hàng không tồn tại",
		"error.order_status_invalid":    "Không thể chuyển trạng thái đơn hàng",
		"error.checkout_failed":         "Đặt hàng thất bại, vui lòng thử lại sau",

		"warning.cart_item_removed":  "%s đã ngừng bán và được xóa khỏi giỏ hàng",
		"warning.cart_price_changed": "Giá của %s đã thay đổi từ %s thành %s",
		"warning.coupon_removed":     "Mã giảm giá %s không còn hiệu lực và đã được gỡ bỏ",
	},
	constants.LocaleZhCN: {
		"error.bad_request":   "请求参数无效",
		"error.unauthorized":  "请先登录",
		"error.forbidden":     "没有访问权限",
		"error.not_found":     "数据不存在",
		"error.rate_limited":  "操作过于频繁，请 %d 秒后再试",
		"error.internal":      "系统繁忙，请稍后再试",
		"error.conflict":      "数据已被修改，请刷新后重试",

		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.jwt_secret_missing":     "系统未配置鉴权密钥",
		"error.auth_header_missing":    "缺少鉴权信息",
		"error.auth_header_invalid":    "鉴权信息格式无效",
		"error.token_invalid":          "登录态无效",

		"error.customer_id_invalid":      "客户身份无效",
		"error.customer_id_type_invalid": "客户身份无效",
		"error.admin_id_invalid":         "管理员身份无效",
		"error.admin_id_type_invalid":    "管理员身份无效",

		"error.coupon_invalid":          "优惠码无效",
		"error.coupon_not_found":        "优惠码不存在",
		"error.coupon_inactive":         "优惠码已停用",
		"error.coupon_not_started":      "优惠码尚未生效",
		"error.coupon_expired":          "优惠码已过期",
		"error.coupon_usage_limit":      "优惠码已达使用上限",
		"error.coupon_min_amount":       "未达到优惠码使用门槛",
		"error.coupon_tier_required":    "会员等级不满足优惠码要求",
		"error.coupon_per_user_limit":   "该优惠码您已用完",
		"error.coupon_scope_category":   "优惠码不适用于该分类",
		"error.coupon_scope_product":    "优惠码不适用于所选商品",
		"error.coupon_first_order_only": "优惠码仅限首单使用",
		"error.coupon_not_stackable":    "优惠码不可与活动价同时使用",

		"error.campaign_not_found":      "促销活动不存在",
		"error.campaign_overlap":        "商品已在其他生效活动中",
		"error.campaign_modified":       "促销活动已被修改，请刷新后重试",
		"error.campaign_invalid":        "促销活动参数无效",
		"error.campaign_window_invalid": "促销活动时间区间无效",
		"error.campaign_item_duplicate": "促销活动条目重复",
		"error.campaign_item_conflict":  "同一商品不能混用整品与规格条目",

		"error.cart_not_found":    "购物车不存在",
		"error.cart_line_invalid": "购物车商品无效",
		"error.cart_line_missing": "商品不在购物车中",

		"error.product_not_available":   "商品已下架",
		"error.variant_invalid":         "商品规格无效",
		"error.product_invalid":         "商品参数无效",
		"error.product_price_invalid":   "商品价格无效",
		"error.slug_exists":             "唯一标识已存在",
		"error.category_in_use":         "分类下仍有商品，无法删除",

		"error.checkout_item_invalid":   "下单商品无效",
		"error.contact_required":        "请填写完整的联系信息",
		"error.payment_method_invalid":  "支付方式无效",
		"error.order_not_found":         "订单不存在",
		"error.order_status_invalid":    "订单状态不允许该操作",
		"error.checkout_failed":         "下单失败，请稍后再试",

		"warning.cart_item_removed":  "%s 已下架，已从购物车移除",
		"warning.cart_price_changed": "%s 的价格已由 %s 调整为 %s",
		"warning.coupon_removed":     "优惠码 %s 已失效，已自动移除",
	},
	constants.LocaleEnUS: {
		"error.bad_request":   "Invalid request",
		"error.unauthorized":  "Please sign in",
		"error.forbidden":     "Access denied",
		"error.not_found":     "Not found",
		"error.rate_limited":  "Too many requests, please try again in %d seconds",
		"error.internal":      "Something went wrong, please try again later",
		"error.conflict":      "The record was modified, please reload",

		"error.rate_limit_unavailable": "Rate limiting is temporarily unavailable",
		"error.jwt_secret_missing":     "Authentication is not configured",
		"error.auth_header_missing":    "Missing authorization header",
		"error.auth_header_invalid":    "Invalid authorization header",
		"error.token_invalid":          "Invalid session, please sign in again",

		"error.customer_id_invalid":      "Invalid customer identity",
		"error.customer_id_type_invalid": "Invalid customer identity",
		"error.admin_id_invalid":         "Invalid admin identity",
		"error.admin_id_type_invalid":    "Invalid admin identity",

		"error.coupon_invalid":          "Invalid coupon code",
		"error.coupon_not_found":        "Coupon code not found",
		"error.coupon_inactive":         "This coupon has been disabled",
		"error.coupon_not_started":      "This coupon is not active yet",
		"error.coupon_expired":          "This coupon has expired",
		"error.coupon_usage_limit":      "This coupon has reached its usage limit",
		"error.coupon_min_amount":       "Order total is below the coupon minimum",
		"error.coupon_tier_required":    "Your membership tier does not qualify for this coupon",
		"error.coupon_per_user_limit":   "You have already used this coupon the maximum number of times",
		"error.coupon_scope_category":   "This coupon does not apply to this category",
		"error.coupon_scope_product":    "This coupon does not apply to the selected products",
		"error.coupon_first_order_only": "This coupon is for first orders only",
		"error.coupon_not_stackable":    "This coupon cannot be combined with sale prices",

		"error.campaign_not_found":      "Campaign not found",
		"error.campaign_overlap":        "Product is already part of another active campaign",
		"error.campaign_modified":       "The campaign was modified, please reload",
		"error.campaign_invalid":        "Invalid campaign parameters",
		"error.campaign_window_invalid": "Invalid campaign time window",
		"error.campaign_item_duplicate": "Duplicate campaign entries",
		"error.campaign_item_conflict":  "A product cannot mix product-wide and per-variant entries",

		"error.cart_not_found":    "Cart not found",
		"error.cart_line_invalid": "Invalid cart item",
		"error.cart_line_missing": "Item is not in the cart",

		"error.product_not_available":   "This product is no longer available",
		"error.variant_invalid":         "Invalid product variant",
		"error.product_invalid":         "Invalid product parameters",
		"error.product_price_invalid":   "Invalid product price",
		"error.slug_exists":             "The slug is already taken",
		"error.category_in_use":         "The category still has products and cannot be deleted",

		"error.checkout_item_invalid":   "Invalid checkout item",
		"error.contact_required":        "Please fill in the contact details",
		"error.payment_method_invalid":  "Invalid payment method",
		"error.order_not_found":         "Order not found",
		"error.order_status_invalid":    "The order status does not allow this operation",
		"error.checkout_failed":         "Checkout failed, please try again later",

		"warning.cart_item_removed":  "%s is no longer available and was removed from your cart",
		"warning.cart_price_changed": "The price of %s changed from %s to %s",
		"warning.coupon_removed":     "Coupon %s is no longer valid and was removed",
	},
}
