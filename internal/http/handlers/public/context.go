package public

import (
	handlershared "github.com/haimart-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getCustomerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "customer_id", "error.customer_id_invalid", "error.customer_id_type_invalid")
}

// optionalCustomerID 读取可选的登录态客户ID，未登录返回 nil，不产生错误响应。
func optionalCustomerID(c *gin.Context) *uint {
	value, exists := c.Get("customer_id")
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok && id > 0 {
		return &id
	}
	return nil
}
