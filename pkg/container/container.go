package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"plik-backend/internal/config"
	infraCache "plik-backend/internal/infrastructure/cache"
	"plik-backend/internal/infrastructure/database"
	"plik-backend/internal/infrastructure/email"
	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared/middleware"
	"plik-backend/pkg/cache"
	"plik-backend/pkg/jwt"

	adminHandler "plik-backend/internal/domains/admin/handler"
	adminService "plik-backend/internal/domains/admin/service"
	billingStripe "plik-backend/internal/domains/billing/gateway/stripe"
	billingHandler "plik-backend/internal/domains/billing/handler"
	billingModel "plik-backend/internal/domains/billing/model"
	billingRepo "plik-backend/internal/domains/billing/repository"
	billingService "plik-backend/internal/domains/billing/service"
	blogHandler "plik-backend/internal/domains/blog/handler"
	blogJob "plik-backend/internal/domains/blog/job"
	blogRepo "plik-backend/internal/domains/blog/repository"
	blogService "plik-backend/internal/domains/blog/service"
	contactHandler "plik-backend/internal/domains/contact/handler"
	contactService "plik-backend/internal/domains/contact/service"
	uploadHandler "plik-backend/internal/domains/upload/handler"
	uploadService "plik-backend/internal/domains/upload/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph, shared by cmd/api and cmd/worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     *storage.MinIOStorage
	EmailSender *email.ResendSender
	FormLimiter *middleware.IPRateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	PostRepo         blogRepo.PostRepository
	WebhookEventRepo billingRepo.WebhookEventRepository

	// ========================================
	// SERVICE LAYER
	// ========================================

	BlogService    blogService.ServiceInterface
	BillingService billingService.ServiceInterface
	ContactService contactService.ServiceInterface
	UploadService  uploadService.ServiceInterface
	AdminService   adminService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	BlogHandler    *blogHandler.BlogHandler
	BillingHandler *billingHandler.BillingHandler
	ContactHandler *contactHandler.ContactHandler
	UploadHandler  *uploadHandler.UploadHandler
	AdminHandler   *adminHandler.AdminHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in order:
// config → infrastructure → repositories → services → handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE + QUEUE CLIENT
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		// Redis failure is not fatal; reads fall through to Postgres
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client, "plik:")
	c.AsynqClient = asynq.NewClient(RedisOpt(cfg.Redis))

	// ========================================
	// STEP 4: INITIALIZE EXTERNAL SERVICES
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init blob storage: %w", err)
	}
	c.Storage = store
	log.Printf("✅ MinIO bucket ready (%s)", cfg.MinIO.Bucket)

	c.EmailSender = email.NewResendSender(cfg.Email.ResendAPIKey)
	if !c.EmailSender.Configured() {
		log.Println("⚠️  RESEND_API_KEY not set, email forms will answer 500")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	c.FormLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.FormsPerMinute, cfg.RateLimit.FormsBurst)

	// ========================================
	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	c.initServices()
	log.Println("✅ Services initialized")

	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// RedisOpt is the asynq connection shared by the api client, the worker and the scheduler.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.PostRepo = blogRepo.NewPostgresPostRepository(c.DB.Pool, c.Cache)
	c.WebhookEventRepo = billingRepo.NewWebhookEventRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	// ----------------------------------------
	// BLOG
	// ----------------------------------------
	c.BlogService = blogService.NewBlogService(
		c.PostRepo,
		blogJob.NewQueueImageCleaner(c.Storage, c.AsynqClient),
		cfg.Site.BaseURL,
	)

	// ----------------------------------------
	// BILLING
	// ----------------------------------------
	c.BillingService = billingService.NewBillingService(
		billingStripe.NewClient(cfg.Stripe),
		c.WebhookEventRepo,
		billingModel.NewCatalog(cfg.Stripe.InfluencerPriceID, cfg.Stripe.InfluencerMediaPriceID),
		c.JWTManager,
		billingService.Config{
			AppURL:    cfg.Site.AppURL,
			DemoMode:  cfg.App.DemoMode,
			SecretKey: cfg.Stripe.SecretKey,
		},
	)

	// ----------------------------------------
	// CONTACT
	// ----------------------------------------
	var dispatcher email.Dispatcher = email.NewDirectDispatcher(c.EmailSender)
	if cfg.Email.Delivery == "queue" {
		dispatcher = email.NewQueueDispatcher(c.AsynqClient)
	}
	c.ContactService = contactService.NewContactService(dispatcher, contactService.Config{
		From:         cfg.Email.From,
		DemoFrom:     cfg.Email.DemoFrom,
		NewsFrom:     cfg.Email.NewsFrom,
		Inbox:        cfg.Email.ContactInbox,
		Configured:   c.EmailSender.Configured(),
		SimulateDemo: cfg.App.IsSimulation(),
	})

	// ----------------------------------------
	// UPLOAD + ADMIN
	// ----------------------------------------
	c.UploadService = uploadService.NewUploadService(c.Storage, storage.NewImageProcessor())
	c.AdminService = adminService.NewAdminService(adminService.Config{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService)
	c.BillingHandler = billingHandler.NewBillingHandler(c.BillingService, c.Config.Site.BaseURL)
	c.ContactHandler = contactHandler.NewContactHandler(c.ContactService)
	c.UploadHandler = uploadHandler.NewUploadHandler(c.UploadService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases pools and clients on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
