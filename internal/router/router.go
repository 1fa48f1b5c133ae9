package router

import (
	"fmt"
	"strings"

	"github.com/haimart-next/internal/cache"
	"github.com/haimart-next/internal/config"
	"github.com/haimart-next/internal/constants"
	adminhandlers "github.com/haimart-next/internal/http/handlers/admin"
	publichandlers "github.com/haimart-next/internal/http/handlers/public"
	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CheckoutRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon", redisPrefix),
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CouponRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（登录态可选，携带则用于优惠码的买家侧校验）
		public := apiV1.Group("/public")
		public.Use(OptionalCustomerJWTMiddleware(cfg.JWT.SecretKey))
		{
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/campaigns", publicHandler.GetLiveCampaigns)
			public.GET("/sale-items", publicHandler.GetSaleItems)
			public.GET("/coupons/validate",
				RateLimitMiddleware(redisClient, couponRule, KeyByIP),
				publicHandler.ValidateCoupon)
		}

		// 购物车与下单（游客可用）
		guest := apiV1.Group("")
		guest.Use(OptionalCustomerJWTMiddleware(cfg.JWT.SecretKey))
		{
			guest.POST("/cart", publicHandler.CreateCart)
			guest.GET("/cart/:id", publicHandler.GetCart)
			guest.POST("/cart/:id/lines", publicHandler.AddCartLine)
			guest.PUT("/cart/:id/lines/:variant_id", publicHandler.UpdateCartLine)
			guest.DELETE("/cart/:id/lines/:variant_id", publicHandler.RemoveCartLine)
			guest.POST("/cart/:id/coupon", publicHandler.ApplyCartCoupon)
			guest.DELETE("/cart/:id/coupon", publicHandler.RemoveCartCoupon)
			guest.POST("/checkout",
				RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("contact_email")),
				publicHandler.Checkout)
			guest.GET("/orders/lookup", publicHandler.LookupOrder)
		}

		// 买家接口（需鉴权）
		customer := apiV1.Group("")
		customer.Use(CustomerJWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			customer.GET("/orders", publicHandler.ListOrders)
			customer.GET("/orders/:id", publicHandler.GetOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			// 促销活动管理
			admin.GET("/campaigns", adminHandler.ListCampaigns)
			admin.GET("/campaigns/:id", adminHandler.GetCampaign)
			admin.POST("/campaigns", adminHandler.CreateCampaign)
			admin.PUT("/campaigns/:id", adminHandler.UpdateCampaign)
			admin.DELETE("/campaigns/:id", adminHandler.DeleteCampaign)

			// 优惠码管理
			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.GET("/coupons/:id", adminHandler.GetCoupon)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			// 商品与分类管理
			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/variants", adminHandler.UpsertProductVariant)
			admin.DELETE("/products/:id/variants/:variant_id", adminHandler.DeleteProductVariant)
			admin.GET("/categories", adminHandler.ListCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 订单管理
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/mark-paid", adminHandler.MarkOrderPaid)

			// 客户管理
			admin.GET("/customers/:id", adminHandler.GetCustomer)
			admin.GET("/customers/:id/ledger", adminHandler.GetCustomerLedger)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
