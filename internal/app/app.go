package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentflow/internal/cache"
	"talentflow/internal/config"
	"talentflow/internal/logger"
	"talentflow/internal/repository"
	"talentflow/internal/service"
	"talentflow/internal/transport/rest"
	"talentflow/internal/transport/ws"
)

// App wires storage, services and transport together
type App struct {
	Config *config.Config
	Logger *logger.Logger

	Mongo *mongo.Client
	Redis *redis.Client

	AssessmentRepo repository.AssessmentRepo
	ResponseRepo   repository.ResponseRepo

	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	ResponseService   *service.ResponseService

	Hub *ws.Hub
}

// ConnectMongo connects and pings MongoDB
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// ConnectRedis connects and pings Redis
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New connects to the stores and builds every service
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	mongoClient, err := ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	db := mongoClient.Database(cfg.MongoDatabase)
	a := &App{
		Config:         cfg,
		Logger:         log,
		Mongo:          mongoClient,
		Redis:          rdb,
		AssessmentRepo: repository.NewAssessmentRepo(db),
		ResponseRepo:   repository.NewResponseRepo(db),
	}

	if err := a.AssessmentRepo.EnsureIndexes(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("assessment indexes: %w", err)
	}
	if err := a.ResponseRepo.EnsureIndexes(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("response indexes: %w", err)
	}

	a.Hub = ws.NewHub(log.Named("ws"))

	a.AuthService = service.NewAuthService(cfg.Auth)
	a.AssessmentService = service.NewAssessmentService(a.AssessmentRepo, cache.NewAssessmentCache(rdb), log.Named("assessments"))
	a.ResponseService = service.NewResponseService(
		a.AssessmentService,
		cache.NewDraftCache(rdb, cfg.DraftTTL),
		cache.NewProgressCache(rdb),
		a.ResponseRepo,
		log.Named("responses"),
	)

	// Inject broadcaster (hub implements service.Broadcaster)
	a.AssessmentService.SetBroadcaster(a.Hub)
	a.ResponseService.SetBroadcaster(a.Hub)

	return a, nil
}

// Router builds the HTTP handler
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		Config:            a.Config,
		Logger:            a.Logger,
		AuthService:       a.AuthService,
		AssessmentService: a.AssessmentService,
		ResponseService:   a.ResponseService,
		WSHub:             a.Hub,
	})
}

// Close releases store connections
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", "error", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}
