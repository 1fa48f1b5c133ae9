package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SaleItemView 生效活动价条目（附折扣百分比）
type SaleItemView struct {
	repository.ActiveSaleItem
	DiscountPercent int64 `json:"discount_percent"`
}

// GetSaleItems 批量查询生效活动价
func (h *Handler) GetSaleItems(c *gin.Context) {
	productIDs, ok := parseIDList(c.Query("product_ids"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	variantIDs, ok := parseIDList(c.Query("variant_ids"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if len(productIDs) == 0 && len(variantIDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	items, err := h.PricingService.ListActiveSaleItems(productIDs, variantIDs, time.Now().UTC())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	views := make([]SaleItemView, 0, len(items))
	for _, item := range items {
		views = append(views, SaleItemView{
			ActiveSaleItem:  item,
			DiscountPercent: discountPercent(item),
		})
	}
	response.Success(c, views)
}

// GetLiveCampaigns 获取进行中的促销活动列表
func (h *Handler) GetLiveCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	campaigns, total, err := h.PricingService.ListLiveCampaigns(time.Now().UTC(), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, campaigns, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func discountPercent(item repository.ActiveSaleItem) int64 {
	original := item.OriginalPrice.Decimal
	sale := item.SalePrice.Decimal
	if !original.IsPositive() || original.LessThanOrEqual(sale) {
		return 0
	}
	return original.Sub(sale).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func parseIDList(raw string) ([]uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := strconv.ParseUint(part, 10, 64)
		if err != nil || parsed == 0 {
			return nil, false
		}
		ids = append(ids, uint(parsed))
	}
	return ids, true
}
