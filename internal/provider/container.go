package provider

import (
	"github.com/haimart-next/internal/cache"
	"github.com/haimart-next/internal/config"
	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/logger"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/queue"
	"github.com/haimart-next/internal/repository"
	"github.com/haimart-next/internal/service"

	"github.com/shopspring/decimal"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CategoryRepo         repository.CategoryRepository
	ProductRepo          repository.ProductRepository
	VariantRepo          repository.VariantRepository
	CampaignRepo         repository.CampaignRepository
	CouponRepo           repository.CouponRepository
	CouponRedemptionRepo repository.CouponRedemptionRepository
	CartRepo             repository.CartRepository
	OrderRepo            repository.OrderRepository
	CustomerRepo         repository.CustomerRepository

	// Services
	PricingService       *service.PricingService
	CouponService        *service.CouponService
	CouponAdminService   *service.CouponAdminService
	CampaignAdminService *service.CampaignAdminService
	ProductService       *service.ProductService
	CategoryService      *service.CategoryService
	CartService          *service.CartService
	CheckoutService      *service.CheckoutService
	OrderService         *service.OrderService
	LoyaltyService       *service.LoyaltyService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponRedemptionRepo = repository.NewCouponRedemptionRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
}

func (c *Container) initServices() {
	c.PricingService = service.NewPricingService(c.CampaignRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponRedemptionRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.CampaignAdminService = service.NewCampaignAdminService(c.CampaignRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.PricingService)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.VariantRepo, c.CustomerRepo, c.PricingService, c.CouponService, c.Config.Cart.TTLHours)
	c.LoyaltyService = service.NewLoyaltyService(c.CustomerRepo, c.OrderRepo, c.Config.Loyalty.PointsUnit, map[string]models.Money{
		constants.TierSilver:  models.NewMoneyFromDecimal(decimal.NewFromInt(c.Config.Loyalty.SilverThreshold)),
		constants.TierGold:    models.NewMoneyFromDecimal(decimal.NewFromInt(c.Config.Loyalty.GoldThreshold)),
		constants.TierDiamond: models.NewMoneyFromDecimal(decimal.NewFromInt(c.Config.Loyalty.DiamondThreshold)),
	})
	c.CheckoutService = service.NewCheckoutService(
		c.OrderRepo,
		c.VariantRepo,
		c.CustomerRepo,
		c.CampaignRepo,
		c.PricingService,
		c.CouponService,
		c.CartService,
		c.LoyaltyService,
		c.QueueClient,
		c.Config.Order.NumberPrefix,
		models.NewMoneyFromDecimal(decimal.NewFromInt(c.Config.Order.FlatShippingFee)),
		c.Config.Order.Currency,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo)
}
