package admin

import (
	"strconv"

	"github.com/haimart-next/internal/http/response"
	"github.com/haimart-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCustomer 获取客户详情（会员等级、积分、累计消费）
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.CustomerRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if customer == nil {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	response.Success(c, customer)
}

// GetCustomerLedger 获取客户积分流水
func (h *Handler) GetCustomerLedger(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	entries, total, err := h.CustomerRepo.ListLedger(repository.PointLedgerListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: id,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, entries, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
