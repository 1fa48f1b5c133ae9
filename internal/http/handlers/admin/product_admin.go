package admin

import (
	"strconv"
	"strings"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
)

type variantRequest struct {
	ID        uint         `json:"id"`
	SKU       string       `json:"sku"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	StockQty  int          `json:"stock_qty"`
	InStock   *bool        `json:"in_stock"`
	IsActive  *bool        `json:"is_active"`
	SortOrder int          `json:"sort_order"`
}

type productRequest struct {
	CategoryID  uint             `json:"category_id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	BasePrice   models.Money     `json:"base_price"`
	Images      []string         `json:"images"`
	Tags        []string         `json:"tags"`
	IsActive    *bool            `json:"is_active"`
	SortOrder   int              `json:"sort_order"`
	Variants    []variantRequest `json:"variants"`
}

func (req *variantRequest) toInput() service.VariantInput {
	return service.VariantInput{
		ID:        req.ID,
		SKU:       req.SKU,
		Name:      req.Name,
		Price:     req.Price,
		StockQty:  req.StockQty,
		InStock:   req.InStock,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
}

func (req *productRequest) toInput() service.ProductInput {
	variants := make([]service.VariantInput, 0, len(req.Variants))
	for i := range req.Variants {
		variants = append(variants, req.Variants[i].toInput())
	}
	return service.ProductInput{
		CategoryID:  req.CategoryID,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Images:      req.Images,
		Tags:        req.Tags,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
		Variants:    variants,
	}
}

// ListProducts 获取商品列表（含未上架）
func (h *Handler) ListProducts(c *gin.Context) {
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

	products, total, err := h.ProductService.ListAdmin(categoryID, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProduct 获取商品详情（含全部规格）
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdminByID(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品（规格随商品一并创建）
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_created",
		"product_id", product.ID,
		"slug", product.Slug,
	)
	response.Success(c, product)
}

// UpdateProduct 更新商品主信息（不触碰规格）
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_updated",
		"product_id", product.ID,
		"slug", product.Slug,
	)
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondCatalogError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, gin.H{"id": id})
}

// UpsertProductVariant 创建或更新商品规格
func (h *Handler) UpsertProductVariant(c *gin.Context) {
	productID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	variant, err := h.ProductService.UpsertVariant(productID, req.toInput())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, variant)
}

// DeleteProductVariant 删除商品规格
func (h *Handler) DeleteProductVariant(c *gin.Context) {
	productID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	variantID, ok := parsePathID(c, "variant_id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(productID, variantID); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, gin.H{"id": variantID})
}
