package provider

import (
	"github.com/magazine-next/internal/authz"
	"github.com/magazine-next/internal/cache"
	"github.com/magazine-next/internal/config"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/queue"
	"github.com/magazine-next/internal/repository"
	"github.com/magazine-next/internal/service"
	"github.com/magazine-next/internal/storage"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     storage.Store

	// Repositories
	UserRepo            repository.UserRepository
	ReaderRepo          repository.ReaderRepository
	AddressRepo         repository.AddressRepository
	MagazineRepo        repository.MagazineRepository
	EditionRepo         repository.EditionRepository
	PlanRepo            repository.PlanRepository
	PlanPriceRepo       repository.PlanPriceRepository
	CouponRepo          repository.CouponRepository
	CouponUsageRepo     repository.CouponUsageRepository
	OrderRepo           repository.OrderRepository
	ProofRepo           repository.ProofRepository
	EditionOrderRepo    repository.EditionOrderRepository
	EditionProofRepo    repository.EditionProofRepository
	EditionPurchaseRepo repository.EditionPurchaseRepository
	SubscriptionRepo    repository.SubscriptionRepository
	DispatchRepo        repository.DispatchRepository
	PaymentRepo         repository.PaymentRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	ReaderService       *service.ReaderService
	MagazineService     *service.MagazineService
	PlanService         *service.PlanService
	PricingService      *service.PricingService
	CouponService       *service.CouponService
	OrderService        *service.OrderService
	VerificationService *service.VerificationService
	DispatchService     *service.DispatchService
	SubscriptionService *service.SubscriptionService
	AccessService       *service.AccessService
	UploadService       *service.UploadService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storage:     store,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ReaderRepo = repository.NewReaderRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.MagazineRepo = repository.NewMagazineRepository(db)
	c.EditionRepo = repository.NewEditionRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.PlanPriceRepo = repository.NewPlanPriceRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProofRepo = repository.NewProofRepository(db)
	c.EditionOrderRepo = repository.NewEditionOrderRepository(db)
	c.EditionProofRepo = repository.NewEditionProofRepository(db)
	c.EditionPurchaseRepo = repository.NewEditionPurchaseRepository(db)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(db)
	c.DispatchRepo = repository.NewDispatchRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.ReaderService = service.NewReaderService(c.ReaderRepo, c.AddressRepo)
	c.MagazineService = service.NewMagazineService(c.MagazineRepo, c.EditionRepo, c.QueueClient)
	c.PlanService = service.NewPlanService(c.PlanRepo)
	c.PricingService = service.NewPricingService(c.PlanRepo, c.PlanPriceRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.EditionOrderRepo,
		c.ProofRepo,
		c.EditionProofRepo,
		c.PlanRepo,
		c.MagazineRepo,
		c.EditionRepo,
		c.AddressRepo,
		c.ReaderRepo,
		c.PricingService,
		c.CouponService,
		service.UPIAccount{VPA: c.Config.Payment.UPI.VPA, Name: c.Config.Payment.UPI.Name},
		c.Config.Order.EditionPriceCents,
	)
	c.DispatchService = service.NewDispatchService(c.DispatchRepo, c.SubscriptionRepo, c.EditionRepo)
	c.VerificationService = service.NewVerificationService(
		c.ProofRepo,
		c.EditionProofRepo,
		c.OrderRepo,
		c.EditionOrderRepo,
		c.PlanRepo,
		c.SubscriptionRepo,
		c.PaymentRepo,
		c.EditionPurchaseRepo,
		c.CouponService,
		c.DispatchService,
	)
	c.SubscriptionService = service.NewSubscriptionService(c.SubscriptionRepo, c.DispatchRepo, c.EditionPurchaseRepo)
	c.AccessService = service.NewAccessService(c.EditionRepo, c.EditionPurchaseRepo, c.SubscriptionRepo)
	c.UploadService = service.NewUploadService(c.Config, c.Storage)
}
