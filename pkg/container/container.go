package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	postJob "blog-backend/internal/domains/post/job"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Dùng chung cho cmd/api và cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config      *config.Config
	DB          *database.MongoDB
	Cache       *infraCache.RedisCache
	CacheReady  bool // false khi Redis không kết nối được lúc start
	BlobStore   storage.BlobStore
	Uploader    *storage.Uploader
	AsynqClient *asynq.Client // nil khi BLOB_CLEANUP_MODE=sync

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	// PostStore luôn đọc thẳng Mongo, PostRepo có thể bọc cache
	PostStore post.Repository
	PostRepo  post.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	BlobCleaner post.BlobCleaner
	PostService post.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	PostHandler    *postHandler.PostHandler
	UploadsHandler *postHandler.UploadsHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (Mongo, Redis, Blob Store, Queue)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
		"cleanup":     cfg.Worker.CleanupMode,
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	db := database.NewMongoDB(cfg.DatabaseConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.Cache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Connect(ctx); err != nil {
		// Redis failure không critical - get đọc thẳng Mongo
		logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		c.CacheReady = true
	}

	// ========================================
	// STEP 4: INITIALIZE BLOB STORE
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	if cfg.Worker.CleanupMode == config.CleanupModeAsync {
		c.AsynqClient = queue.NewClient(cfg.Redis)
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI Container initialized successfully", map[string]interface{}{})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStorage(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Storage.Driver {
	case config.StorageDriverMinIO:
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		c.BlobStore = store
	default:
		store, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return err
		}
		c.BlobStore = store
	}

	processor := storage.NewImageProcessor(cfg.Upload.MaxSizeBytes(), cfg.Upload.MaxDimension)
	c.Uploader = storage.NewUploader(c.BlobStore, processor)
	return nil
}

func (c *Container) initRepositories() {
	c.PostStore = postRepo.NewMongoRepository(c.DB.Collection(c.Config.Mongo.Collection))
	c.PostRepo = c.PostStore

	if c.Config.Redis.CacheEnabled && c.CacheReady {
		c.PostRepo = postRepo.NewCachedRepository(c.PostStore, c.Cache, c.Config.Redis.CacheTTL)
	}
}

func (c *Container) initServices() {
	direct := postService.NewDirectCleaner(c.BlobStore)
	c.BlobCleaner = direct

	if c.AsynqClient != nil {
		c.BlobCleaner = postJob.NewQueueCleaner(c.AsynqClient, direct)
	}

	c.PostService = postService.NewPostService(c.PostRepo, c.PostStore, c.BlobCleaner)
}

func (c *Container) initHandlers() {
	c.PostHandler = postHandler.NewPostHandler(c.PostService, c.Uploader)
	c.UploadsHandler = postHandler.NewUploadsHandler(c.BlobStore)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.DB.Close(ctx); err != nil {
			log.Printf("⚠️  Failed to close MongoDB: %v", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
