package public

import (
	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
)

type checkoutItemRequest struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

type checkoutRequest struct {
	CartID     uint                  `json:"cart_id"`
	Items      []checkoutItemRequest `json:"items"`
	CouponCode string                `json:"coupon_code"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	ShippingAddress  string `json:"shipping_address"`
	ShippingCity     string `json:"shipping_city"`
	ShippingDistrict string `json:"shipping_district"`
	ShippingWard     string `json:"shipping_ward"`

	Note          string `json:"note"`
	PaymentMethod string `json:"payment_method"`
}

// Checkout 下单
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var customerID uint
	if id := optionalCustomerID(c); id != nil {
		customerID = *id
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	receipt, err := h.CheckoutService.Checkout(service.CheckoutInput{
		CustomerID:       customerID,
		CartID:           req.CartID,
		Items:            items,
		CouponCode:       req.CouponCode,
		ContactName:      req.ContactName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		ShippingAddress:  req.ShippingAddress,
		ShippingCity:     req.ShippingCity,
		ShippingDistrict: req.ShippingDistrict,
		ShippingWard:     req.ShippingWard,
		Note:             req.Note,
		PaymentMethod:    req.PaymentMethod,
		ClientIP:         c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, receipt)
}
