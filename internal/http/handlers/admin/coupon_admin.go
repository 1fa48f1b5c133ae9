package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
)

type couponRequest struct {
	Code              string       `json:"code"`
	Name              string       `json:"name"`
	Type              string       `json:"type"`
	Value             models.Money `json:"value"`
	MinOrderAmount    models.Money `json:"min_order_amount"`
	MaxDiscount       models.Money `json:"max_discount"`
	UsageLimit        int          `json:"usage_limit"`
	PerUserLimit      int          `json:"per_user_limit"`
	MinTier           string       `json:"min_tier"`
	CategoryID        *uint        `json:"category_id"`
	ScopeProductIDs   []uint       `json:"scope_product_ids"`
	FirstOrderOnly    bool         `json:"first_order_only"`
	StackableWithSale *bool        `json:"stackable_with_sale"`
	StartsAt          *time.Time   `json:"starts_at"`
	EndsAt            *time.Time   `json:"ends_at"`
	IsActive          *bool        `json:"is_active"`
}

func (req *couponRequest) toInput() service.CouponAdminInput {
	return service.CouponAdminInput{
		Code:              req.Code,
		Name:              req.Name,
		Type:              req.Type,
		Value:             req.Value,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscount:       req.MaxDiscount,
		UsageLimit:        req.UsageLimit,
		PerUserLimit:      req.PerUserLimit,
		MinTier:           req.MinTier,
		CategoryID:        req.CategoryID,
		ScopeProductIDs:   req.ScopeProductIDs,
		FirstOrderOnly:    req.FirstOrderOnly,
		StackableWithSale: req.StackableWithSale,
		StartsAt:          req.StartsAt,
		EndsAt:            req.EndsAt,
		IsActive:          req.IsActive,
	}
}

// ListCoupons 获取优惠码列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Code:     strings.TrimSpace(c.Query("code")),
		Type:     strings.TrimSpace(c.Query("type")),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, coupons, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetCoupon 获取优惠码详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Get(id)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 创建优惠码
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.Create(req.toInput())
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_created",
		"coupon_id", coupon.ID,
		"code", coupon.Code,
	)
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠码
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.Update(id, req.toInput())
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_updated",
		"coupon_id", coupon.ID,
		"code", coupon.Code,
	)
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠码
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id); err != nil {
		respondCouponAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_deleted", "coupon_id", id)
	response.Success(c, gin.H{"id": id})
}
