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

type campaignItemRequest struct {
	ProductID     uint         `json:"product_id"`
	VariantID     *uint        `json:"variant_id"`
	SalePrice     models.Money `json:"sale_price"`
	OriginalPrice models.Money `json:"original_price"`
	MaxQuantity   int          `json:"max_quantity"`
}

type campaignRequest struct {
	Slug        string                `json:"slug"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	StartsAt    time.Time             `json:"starts_at"`
	EndsAt      time.Time             `json:"ends_at"`
	IsActive    *bool                 `json:"is_active"`
	IsFeatured  bool                  `json:"is_featured"`
	Items       []campaignItemRequest `json:"items"`
	// UpdatedAt 更新时携带读取时刻的版本，用于并发修改检测
	UpdatedAt *time.Time `json:"updated_at"`
}

func (req *campaignRequest) toInput() service.CampaignAdminInput {
	items := make([]service.CampaignItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CampaignItemInput{
			ProductID:     item.ProductID,
			VariantID:     item.VariantID,
			SalePrice:     item.SalePrice,
			OriginalPrice: item.OriginalPrice,
			MaxQuantity:   item.MaxQuantity,
		})
	}
	return service.CampaignAdminInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
		Items:       items,
		UpdatedAt:   req.UpdatedAt,
	}
}

// ListCampaigns 获取促销活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CampaignListFilter{
		Type:      strings.TrimSpace(c.Query("type")),
		Page:      page,
		PageSize:  pageSize,
		WithItems: true,
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}
	if raw := strings.TrimSpace(c.Query("only_live")); raw == "true" || raw == "1" {
		filter.OnlyLive = true
		filter.Now = time.Now().UTC()
	}

	campaigns, total, err := h.CampaignAdminService.List(filter)
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

// GetCampaign 获取促销活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	campaign, err := h.CampaignAdminService.Get(id)
	if err != nil {
		respondCampaignError(c, err)
		return
	}
	response.Success(c, campaign)
}

// CreateCampaign 创建促销活动
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	campaign, err := h.CampaignAdminService.Create(req.toInput())
	if err != nil {
		respondCampaignError(c, err)
		return
	}
	requestLog(c).Infow("admin_campaign_created",
		"campaign_id", campaign.ID,
		"slug", campaign.Slug,
	)
	response.Success(c, campaign)
}

// UpdateCampaign 更新促销活动（整体替换条目）
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	campaign, err := h.CampaignAdminService.Update(id, req.toInput())
	if err != nil {
		respondCampaignError(c, err)
		return
	}
	requestLog(c).Infow("admin_campaign_updated",
		"campaign_id", campaign.ID,
		"slug", campaign.Slug,
	)
	response.Success(c, campaign)
}

// DeleteCampaign 删除促销活动
func (h *Handler) DeleteCampaign(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.CampaignAdminService.Delete(id); err != nil {
		respondCampaignError(c, err)
		return
	}
	requestLog(c).Infow("admin_campaign_deleted", "campaign_id", id)
	response.Success(c, gin.H{"id": id})
}
