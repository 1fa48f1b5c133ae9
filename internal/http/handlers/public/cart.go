package public

import (
	"strconv"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/i18n"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartView 购物车响应（含同步提示）
type CartView struct {
	Cart     *models.Cart `json:"cart"`
	Subtotal models.Money `json:"subtotal"`
	Total    models.Money `json:"total"`
	Warnings []string     `json:"warnings,omitempty"`
}

func buildCartView(c *gin.Context, cart *models.Cart, warnings []service.SyncWarning) CartView {
	return CartView{
		Cart:     cart,
		Subtotal: cart.Subtotal(),
		Total:    cart.Total(),
		Warnings: localizeCartWarnings(c, warnings),
	}
}

// localizeCartWarnings 将同步提示翻译为请求语言的文案。
func localizeCartWarnings(c *gin.Context, warnings []service.SyncWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	locale := i18n.ResolveLocale(c)
	messages := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		switch warning.Kind {
		case service.CartWarnLineRemoved:
			messages = append(messages, i18n.Sprintf(locale, "warning.cart_item_removed", warning.ProductName))
		case service.CartWarnPriceChanged:
			messages = append(messages, i18n.Sprintf(locale, "warning.cart_price_changed",
				warning.ProductName, warning.OldPrice.String(), warning.NewPrice.String()))
		case service.CartWarnCouponRemoved:
			messages = append(messages, i18n.Sprintf(locale, "warning.coupon_removed", warning.CouponCode))
		}
	}
	return messages
}

func parseCartID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(parsed), true
}

func parseCartVariantID(c *gin.Context) (uint, bool) {
	raw := c.Param("variant_id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(parsed), true
}

// CreateCart 创建购物车（登录客户归属客户，游客发放会话标识）
func (h *Handler) CreateCart(c *gin.Context) {
	cart, err := h.CartService.CreateCart(optionalCustomerID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// GetCart 获取购物车（返回前先与商品目录同步）
func (h *Handler) GetCart(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	cart, warnings, err := h.CartService.Sync(cartID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, warnings))
}

// AddCartLine 添加购物车行（同规格行合并数量）
func (h *Handler) AddCartLine(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	var req struct {
		VariantID uint `json:"variant_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.AddLine(cartID, req.VariantID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, nil))
}

// UpdateCartLine 修改购物车行数量（0 表示删除）
func (h *Handler) UpdateCartLine(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	variantID, ok := parseCartVariantID(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.UpdateLineQuantity(cartID, variantID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, nil))
}

// RemoveCartLine 删除购物车行
func (h *Handler) RemoveCartLine(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	variantID, ok := parseCartVariantID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveLine(cartID, variantID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, nil))
}

// ApplyCartCoupon 在购物车上应用优惠码
func (h *Handler) ApplyCartCoupon(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.ApplyCoupon(cartID, req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, nil))
}

// RemoveCartCoupon 移除购物车上的优惠码
func (h *Handler) RemoveCartCoupon(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveCoupon(cartID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(c, cart, nil))
}
