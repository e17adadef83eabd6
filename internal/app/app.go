package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Aasim47/vendorconex/internal/auth"
	"github.com/Aasim47/vendorconex/internal/cache"
	"github.com/Aasim47/vendorconex/internal/config"
	"github.com/Aasim47/vendorconex/internal/event"
	handler "github.com/Aasim47/vendorconex/internal/handler/http"
	mongorepo "github.com/Aasim47/vendorconex/internal/repository/mongo"
	"github.com/Aasim47/vendorconex/internal/service"
	"github.com/Aasim47/vendorconex/pkg/database"
	"github.com/Aasim47/vendorconex/pkg/health"
	"github.com/Aasim47/vendorconex/pkg/httpclient"
	pkgkafka "github.com/Aasim47/vendorconex/pkg/kafka"
	"github.com/Aasim47/vendorconex/pkg/tracing"
)

// App wires together all dependencies and runs the server.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	mongoClient *mongo.Client
	rdb         *redis.Client
	producer    *pkgkafka.Producer
	httpServer  *http.Server
	traceStop   func(context.Context) error
}

// noopPublisher satisfies event.Publisher when Kafka is disabled.
type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return nil
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	traceStop, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "vendorconex",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// MongoDB.
	mongoClient, err := database.NewMongoClient(ctx, database.MongoConfig{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		MaxPoolSize:    cfg.MongoMaxPoolSize,
		MinPoolSize:    cfg.MongoMinPoolSize,
		ConnectTimeout: 10 * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	// Repositories and their indexes.
	userRepo := mongorepo.NewUserRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	cartRepo := mongorepo.NewCartRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := cartRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure cart indexes: %w", err)
	}

	// Redis product cache (optional).
	var rdb *redis.Client
	var productCache *cache.ProductCache
	if cfg.RedisEnabled {
		rdb, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		productCache = cache.NewProductCache(rdb, cfg.ProductCacheTTL(), logger)
		logger.Info("product cache enabled",
			slog.String("addr", fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)),
		)
	}

	// Kafka producer (optional). When disabled, domain events go nowhere.
	var producer *pkgkafka.Producer
	var publisher event.Publisher = noopPublisher{}
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	eventProducer := event.NewProducer(publisher, logger)

	// Outbound chat client with retries and a circuit breaker.
	chatClientCfg := httpclient.DefaultConfig()
	chatClientCfg.Timeout = cfg.ChatTimeout()
	chatClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(chatClientCfg),
		httpclient.CircuitBreakerConfig{
			Name:         "chat-upstream",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		},
		logger,
	)

	// Services.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry())
	userService := service.NewUserService(userRepo, jwtManager, eventProducer, logger)
	productService := service.NewProductService(productRepo, userRepo, productCache, eventProducer, logger)
	cartService := service.NewCartService(cartRepo, productRepo, orderRepo, eventProducer, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, eventProducer, logger)
	chatService := service.NewChatService(chatClient, cfg.ChatAPIURL, cfg.ChatAPIKey, logger)

	// Health checks. MongoDB is the system of record; the cache and the
	// broker only degrade readiness.
	healthHandler := health.NewHandler()
	healthHandler.Register("mongodb", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if rdb != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		kafkaProducer := producer
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return kafkaProducer.Ping(ctx)
		})
	}

	router := handler.NewRouter(handler.RouterConfig{
		Users:    userService,
		Products: productService,
		Carts:    cartService,
		Orders:   orderService,
		Chat:     chatService,

		Health: healthHandler,
		JWT:    jwtManager,
		Logger: logger,

		CORSOrigins: cfg.CORSAllowedOrigins,
		Environment: cfg.Environment,

		ChatRateLimitRPS:   cfg.ChatRateLimitRPS,
		ChatRateLimitBurst: cfg.ChatRateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		mongoClient: mongoClient,
		rdb:         rdb,
		producer:    producer,
		httpServer:  httpServer,
		traceStop:   traceStop,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain HTTP, flush traces, close
// the broker, then disconnect the database.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.traceStop(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
