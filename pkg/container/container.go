package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"people-api/internal/config"
	infraCache "people-api/internal/infrastructure/cache"
	"people-api/internal/infrastructure/database"
	"people-api/pkg/cache"
	"people-api/pkg/queue"

	"people-api/internal/domains/person"
	"people-api/internal/domains/person/flusher"
	personHandler "people-api/internal/domains/person/handler"
	personRepo "people-api/internal/domains/person/repository"
	personService "people-api/internal/domains/person/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph.
// Shared handles (queue, cache, pool) live here for the process lifetime:
// initialized once at startup, never torn down mid-run.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	// Queue is the ingestion queue shared by the person service
	// (producer) and the flusher (sole consumer).
	Queue *queue.Queue[person.CreationEvent]

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	PersonRepo person.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	PersonService person.Service

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	PersonHandler *personHandler.PersonHandler

	// ========================================
	// BACKGROUND
	// ========================================
	// Flusher runs detached; request handlers communicate with it only
	// through the ingestion queue and the cache tier.
	Flusher *flusher.Flusher
}

// NewContainer tạo và initialize toàn bộ dependency graph
// Thứ tự initialization: Config -> Infrastructure -> Repositories ->
// Services -> Handlers -> Background.
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

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis failure không critical - cache is best-effort
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	c.Cache = redisCache

	// ========================================
	// STEP 4: INGESTION QUEUE
	// ========================================
	c.Queue = queue.New[person.CreationEvent]()

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.PersonRepo = personRepo.NewPostgresRepository(c.DB.Pool)

	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.PersonService = personService.NewPersonService(
		c.PersonRepo,
		c.Cache,
		c.Queue,
		cfg.App.CountSettleDelay,
	)

	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.PersonHandler = personHandler.NewPersonHandler(c.PersonService)

	log.Println("✅ Handlers initialized")

	// ========================================
	// STEP 8: BACKGROUND FLUSHER
	// ========================================
	c.Flusher = flusher.New(
		c.Queue,
		c.PersonRepo,
		cfg.Flusher.Interval,
		cfg.Flusher.FlushTimeout,
	)

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// Cleanup đóng các infrastructure connections
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container...")

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleaned up")
}
