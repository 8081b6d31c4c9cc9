package provider

import (
	"fmt"

	"github.com/elwarcha/gallery/internal/authz"
	"github.com/elwarcha/gallery/internal/cache"
	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/metrics"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/queue"
	"github.com/elwarcha/gallery/internal/repository"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Container holds every long-lived dependency of the process.
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	Retry       models.RetryPolicy

	Registry        *prometheus.Registry
	BusinessMetrics *metrics.Business
	HTTPMetrics     *metrics.HTTP

	// Repositories
	UserRepo     repository.UserRepository
	PaintingRepo repository.PaintingRepository
	TaxonomyRepo repository.TaxonomyRepository
	CartRepo     repository.CartRepository
	DiscountRepo repository.DiscountRepository
	OrderRepo    repository.OrderRepository
	ContactRepo  repository.ContactMessageRepository

	// Services
	AuthzService         *authz.Service
	UserAuthService      *service.UserAuthService
	CatalogService       *service.CatalogService
	CatalogAdminService  *service.CatalogAdminService
	CartService          *service.CartService
	DiscountService      *service.DiscountService
	DiscountAdminService *service.DiscountAdminService
	CheckoutService      *service.CheckoutService
	OrderService         *service.OrderService
	OrderAdminService    *service.OrderAdminService
	EmailService         *service.EmailService
	OrderEmailService    *service.OrderEmailService
	ContactService       *service.ContactService
	ContactAdminService  *service.ContactAdminService
	ContactEmailService  *service.ContactEmailService
	Notifier             *service.QueueNotifier
}

// NewContainer opens the database, migrates it and wires every service.
func NewContainer(cfg *config.Config) (*Container, error) {
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := models.EnsureAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	return NewContainerWithDB(cfg, db)
}

// NewContainerWithDB wires services on an already migrated database.
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = &queue.Client{}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       cache.New(&cfg.Redis),
		QueueClient: queueClient,
		Retry:       models.NewRetryPolicy(cfg.Database.Retry.MaxRetries, cfg.Database.Retry.BaseDelay()),
	}
	c.initMetrics()
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	namespace := c.Config.Metrics.Namespace
	c.BusinessMetrics = metrics.NewBusiness(c.Registry, namespace)
	c.HTTPMetrics = metrics.NewHTTP(c.Registry, c.Registry, namespace)
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.DB)
	c.PaintingRepo = repository.NewPaintingRepository(c.DB)
	c.TaxonomyRepo = repository.NewTaxonomyRepository(c.DB)
	c.CartRepo = repository.NewCartRepository(c.DB)
	c.DiscountRepo = repository.NewDiscountRepository(c.DB)
	c.OrderRepo = repository.NewOrderRepository(c.DB)
	c.ContactRepo = repository.NewContactMessageRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return fmt.Errorf("init authz: %w", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return fmt.Errorf("bootstrap roles: %w", err)
	}
	c.AuthzService = authzService

	c.UserAuthService = service.NewUserAuthService(c.Config.JWT, c.UserRepo, c.Retry)
	c.CatalogService = service.NewCatalogService(c.PaintingRepo, c.TaxonomyRepo, c.Cache, c.Config.Catalog, c.Retry)
	c.CatalogAdminService = service.NewCatalogAdminService(c.DB, c.PaintingRepo, c.TaxonomyRepo, c.CatalogService, c.Retry)

	c.CartService = service.NewCartService(c.DB, c.CartRepo, c.PaintingRepo, c.UserRepo, c.Retry)
	c.CartService.SetMetrics(c.BusinessMetrics)

	c.DiscountService = service.NewDiscountService(c.DiscountRepo, c.Retry)
	c.DiscountService.SetMetrics(c.BusinessMetrics)
	c.DiscountAdminService = service.NewDiscountAdminService(c.DiscountRepo, c.DiscountService, c.Retry)
	c.CheckoutService = service.NewCheckoutService(c.DiscountService)

	c.Notifier = service.NewQueueNotifier(c.QueueClient)
	c.OrderService = service.NewOrderService(service.OrderServiceDeps{
		DB:           c.DB,
		OrderRepo:    c.OrderRepo,
		CartRepo:     c.CartRepo,
		PaintingRepo: c.PaintingRepo,
		UserRepo:     c.UserRepo,
		Carts:        c.CartService,
		Checkout:     c.CheckoutService,
		Notifier:     c.Notifier,
		Retry:        c.Retry,
		Metrics:      c.BusinessMetrics,
	})
	c.OrderAdminService = service.NewOrderAdminService(c.DB, c.OrderRepo, c.AuthzService, c.Notifier, c.Retry, c.BusinessMetrics)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.OrderEmailService = service.NewOrderEmailService(c.OrderRepo, c.EmailService, c.Config.Server.SiteURL)

	c.ContactService = service.NewContactService(c.ContactRepo, c.Notifier, c.Retry)
	c.ContactAdminService = service.NewContactAdminService(c.ContactRepo, c.Retry)
	contactTarget := c.Config.Email.ContactTarget
	if contactTarget == "" {
		contactTarget = c.Config.Email.From
	}
	c.ContactEmailService = service.NewContactEmailService(c.ContactRepo, c.EmailService, contactTarget)
	return nil
}

// Close releases redis, queue and database connections.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_cache_failed", "error", err)
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
