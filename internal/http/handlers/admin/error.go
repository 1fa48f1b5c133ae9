package admin

import (
	"errors"

	handlershared "github.com/haimart-next/internal/http/handlers/shared"
	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var campaignErrorRules = []mappedHandlerError{
	{target: service.ErrCampaignNotFound, code: response.CodeNotFound, key: "error.campaign_not_found"},
	{target: service.ErrCampaignInvalid, code: response.CodeBadRequest, key: "error.campaign_invalid"},
	{target: service.ErrCampaignSlugTaken, code: response.CodeBadRequest, key: "error.slug_exists"},
	{target: service.ErrCampaignWindowInvalid, code: response.CodeBadRequest, key: "error.campaign_window_invalid"},
	{target: service.ErrCampaignItemDuplicate, code: response.CodeBadRequest, key: "error.campaign_item_duplicate"},
	{target: service.ErrCampaignItemConflict, code: response.CodeBadRequest, key: "error.campaign_item_conflict"},
	{target: service.ErrCampaignOverlap, code: response.CodeBadRequest, key: "error.campaign_overlap"},
	{target: service.ErrCampaignModified, code: response.CodeConflict, key: "error.campaign_modified"},
}

var couponAdminErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, key: "error.coupon_not_found"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrSlugExists, code: response.CodeBadRequest, key: "error.slug_exists"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrSlugExists, code: response.CodeBadRequest, key: "error.slug_exists"},
	{target: service.ErrCategoryInUse, code: response.CodeBadRequest, key: "error.category_in_use"},
	{target: service.ErrProductInvalid, code: response.CodeBadRequest, key: "error.product_invalid"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},
	{target: service.ErrVariantInvalid, code: response.CodeBadRequest, key: "error.variant_invalid"},
}

var orderAdminErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
}

func respondCampaignError(c *gin.Context, err error) {
	respondWithMappedError(c, err, campaignErrorRules, response.CodeInternal, "error.internal")
}

func respondCouponAdminError(c *gin.Context, err error) {
	respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "error.internal")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.internal")
}

func respondOrderAdminError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "error.internal")
}
