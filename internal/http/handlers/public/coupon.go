package public

import (
	"strings"
	"time"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/i18n"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponValidationView 优惠码校验响应
type CouponValidationView struct {
	Valid     bool         `json:"valid"`
	ReasonKey string       `json:"reason_key,omitempty"`
	Message   string       `json:"message,omitempty"`
	CouponID  uint         `json:"coupon_id,omitempty"`
	Type      string       `json:"type,omitempty"`
	Amount    models.Money `json:"amount"`
}

// ValidateCoupon 校验优惠码（只读，不核销）
func (h *Handler) ValidateCoupon(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	cartTotal := models.Money{}
	if raw := strings.TrimSpace(c.Query("cart_total")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		cartTotal = models.NewMoneyFromDecimal(parsed)
	}

	productIDs, ok := parseIDList(c.Query("product_ids"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	categoryIDs, ok := parseIDList(c.Query("category_ids"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var customer *models.Customer
	if customerID := optionalCustomerID(c); customerID != nil {
		loaded, err := h.CustomerRepo.GetByID(*customerID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		customer = loaded
	}

	outcome, err := h.CouponService.Validate(service.ValidateCouponInput{
		Code:        code,
		CartTotal:   cartTotal,
		ProductIDs:  productIDs,
		CategoryIDs: categoryIDs,
		Customer:    customer,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	view := CouponValidationView{
		Valid:     outcome.Valid,
		ReasonKey: outcome.ReasonKey,
		CouponID:  outcome.CouponID,
		Type:      outcome.Type,
		Amount:    outcome.Amount,
	}
	if !outcome.Valid && outcome.ReasonKey != "" {
		view.Message = i18n.T(i18n.ResolveLocale(c), outcome.ReasonKey)
	}
	response.Success(c, view)
}
