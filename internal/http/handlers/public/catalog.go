package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 商品列表项（叠加当前生效的最优活动价）
type PublicProductView struct {
	models.Product
	SalePrice    *models.Money `json:"sale_price,omitempty"`
	CampaignID   *uint         `json:"campaign_id,omitempty"`
	CampaignName string        `json:"campaign_name,omitempty"`
	OnSale       bool          `json:"on_sale"`
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		categoryID = uint(parsed)
	}
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.ListPublic(categoryID, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	views, err := h.decorateProducts(products)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProductBySlug 获取商品详情（含规格与活动价）
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	detail, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, detail)
}

// decorateProducts 为列表商品叠加生效活动价。
// 活动价查询结果已按规格专属优先、活动价升序排序，每个商品取首条即最优。
func (h *Handler) decorateProducts(products []models.Product) ([]PublicProductView, error) {
	views := make([]PublicProductView, 0, len(products))
	if len(products) == 0 {
		return views, nil
	}

	productIDs := make([]uint, 0, len(products))
	for _, product := range products {
		productIDs = append(productIDs, product.ID)
	}
	items, err := h.PricingService.ListActiveSaleItems(productIDs, nil, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	best := make(map[uint]repository.ActiveSaleItem, len(items))
	for _, item := range items {
		if _, ok := best[item.ProductID]; !ok {
			best[item.ProductID] = item
		}
	}

	for _, product := range products {
		view := PublicProductView{Product: product}
		if item, ok := best[product.ID]; ok {
			salePrice := item.SalePrice
			campaignID := item.CampaignID
			view.SalePrice = &salePrice
			view.CampaignID = &campaignID
			view.CampaignName = item.CampaignName
			view.OnSale = true
		}
		views = append(views, view)
	}
	return views, nil
}
