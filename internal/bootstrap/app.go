package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-api/internal/cache"
	"portfolio-api/internal/config"
	"portfolio-api/internal/pkg/jwtutil"
	"portfolio-api/internal/pkg/password"
	"portfolio-api/internal/platform/filestore"
	mongoClient "portfolio-api/internal/platform/mongo"
	rabbitmqClient "portfolio-api/internal/platform/rabbitmq"
	redisClient "portfolio-api/internal/platform/redis"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/worker"
)

// App holds the process-wide resources. Optional dependencies are nil when
// disabled in configuration.
type App struct {
	Config *config.Config
	Mongo  *mongo.Client
	Redis  *redis.Client
	MQConn *amqp.Connection

	Users    repository.UserStore
	Projects repository.ProjectStore
	Tasks    repository.TaskStore
	Tx       repository.Transactor
	Files    filestore.Store

	Tokens       *jwtutil.Manager
	Hasher       *password.Hasher
	LoginLimiter cache.LoginLimiter
	Events       *rabbitmqClient.EventPublisher

	EventWorker *worker.ProjectEventWorker
	Sweeper     *worker.OrphanSweeper

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	tokens, err := jwtutil.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("init token manager failed: %w", err)
	}

	a := &App{
		Config:    cfg,
		Tokens:    tokens,
		Hasher:    password.NewHasher(cfg.Auth.BcryptCost),
		StartedAt: time.Now(),
	}

	if err := a.initStorage(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.initFiles(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.initLimiter(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.initMessaging(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.Sweep.Enabled {
		a.Sweeper = worker.NewOrphanSweeper(a.Projects, a.Tasks, cfg.Sweep.Schedule)
		if err := a.Sweeper.Start(); err != nil {
			a.Sweeper = nil
			_ = a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) initStorage(ctx context.Context) error {
	cfg := a.Config
	if cfg.Storage.Driver == config.StorageMemory {
		log.Printf("storage: in-memory driver, data is lost on restart")
		a.Users = repository.NewMemoryUserRepository()
		a.Projects = repository.NewMemoryProjectRepository()
		a.Tasks = repository.NewMemoryTaskRepository()
		a.Tx = repository.PassthroughTransactor{}
		return nil
	}

	client, err := mongoClient.New(ctx, cfg.Mongo.URI, cfg.MongoConnectTimeout())
	if err != nil {
		return err
	}
	a.Mongo = client

	db := client.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure mongo indexes failed: %w", err)
	}
	a.Users = repository.NewUserRepository(db)
	a.Projects = repository.NewProjectRepository(db)
	a.Tasks = repository.NewTaskRepository(db)
	a.Tx = repository.NewMongoTransactor(client, cfg.Mongo.UseTransactions)
	if !cfg.Mongo.UseTransactions {
		log.Printf("storage: mongo transactions disabled, project cascade deletes are not atomic")
	}
	return nil
}

func (a *App) initFiles(ctx context.Context) error {
	cfg := a.Config
	if cfg.Upload.Driver == config.UploadS3 {
		store, err := filestore.NewS3Store(ctx, filestore.S3Options{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		a.Files = store
		return nil
	}

	store, err := filestore.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return err
	}
	a.Files = store
	return nil
}

func (a *App) initLimiter(ctx context.Context) error {
	cfg := a.Config
	if !cfg.Redis.Enabled {
		a.LoginLimiter = cache.NewLocalLoginLimiter(cfg.Auth.LoginRateLimit, cfg.LoginRateWindow())
		return nil
	}

	client, err := redisClient.New(ctx, redisClient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	a.Redis = client
	a.LoginLimiter = cache.NewRedisLoginLimiter(client, cfg.Auth.LoginRateLimit, cfg.LoginRateWindow())
	return nil
}

func (a *App) initMessaging(ctx context.Context) error {
	cfg := a.Config
	if !cfg.RabbitMQ.Enabled {
		return nil
	}

	conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ProjectEventsQueue)
	if err != nil {
		return err
	}
	a.MQConn = conn
	a.Events = rabbitmqClient.NewEventPublisher(conn, cfg.RabbitMQ.ProjectEventsQueue)

	a.EventWorker = worker.NewProjectEventWorker(conn, a.Tasks, cfg.RabbitMQ.ProjectEventsQueue)
	if err := a.EventWorker.Start(ctx); err != nil {
		a.EventWorker = nil
		return fmt.Errorf("start project event worker failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Sweeper != nil {
		a.Sweeper.Close()
	}
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Disconnect(ctx); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
