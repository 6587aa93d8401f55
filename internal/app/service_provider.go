package app

import (
	"context"

	accountAPI "minigames_backend/internal/api/account"
	eliminationAPI "minigames_backend/internal/api/elimination"
	wheelAPI "minigames_backend/internal/api/wheel"
	"minigames_backend/internal/config"
	"minigames_backend/internal/config/env"
	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/engine/wheel"
	"minigames_backend/internal/logger"
	"minigames_backend/internal/metrics"
	"minigames_backend/internal/producer"
	"minigames_backend/internal/repository"
	"minigames_backend/internal/repository/account_repo"
	"minigames_backend/internal/repository/history_repo"
	"minigames_backend/internal/repository/memory_repo"
	"minigames_backend/internal/repository/session_repo"
	"minigames_backend/internal/repository/stats_repo"
	"minigames_backend/internal/service"
	"minigames_backend/internal/service/ledger"
	"minigames_backend/internal/service/session"
	"minigames_backend/pkg/rng"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	// Configs
	appCfg         config.AppConfig
	httpCfg        config.HTTPConfig
	pgConfig       config.PGConfig
	redisCfg       config.RedisConfig
	kafkaCfg       config.KafkaConfig
	metricsCfg     config.MetricsConfig
	wheelCfg       config.WheelConfig
	eliminationCfg config.EliminationConfig

	// Observability
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	//TXManager
	txManager trm.Manager

	// Database
	dbClient *pgxpool.Pool

	// Redis
	redisClient *redis.Client

	// Kafka
	kafkaWriter *kafka.Writer
	publisher   producer.Publisher

	// Ledger bits
	accountRepo repository.AccountRepository
	historyRepo repository.HistoryRepository
	ledgerServ  service.LedgerService

	// Game bits
	randomSource      rng.Source
	eliminationEngine *elimination.Engine
	wheelEngine       *wheel.Engine
	sessionRepo       repository.SessionRepository
	statsRepo         repository.StatsRepository
	gameServ          service.GameSessionService

	// Handlers
	eliminationHand *eliminationAPI.Handler
	wheelHand       *wheelAPI.Handler
	accountHand     *accountAPI.Handler

	router chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) AppCfg() config.AppConfig {
	if sp.appCfg == nil {
		cfg, err := env.NewAppConfig()
		if err != nil {
			panic("failed to get app config: " + err.Error())
		}
		sp.appCfg = cfg
	}
	return sp.appCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) KafkaCfg() config.KafkaConfig {
	if sp.kafkaCfg == nil {
		sp.kafkaCfg = env.NewKafkaConfig()
	}
	return sp.kafkaCfg
}

func (sp *ServiceProvider) MetricsCfg() config.MetricsConfig {
	if sp.metricsCfg == nil {
		sp.metricsCfg = env.NewMetricsConfig()
	}
	return sp.metricsCfg
}

func (sp *ServiceProvider) WheelCfg() config.WheelConfig {
	if sp.wheelCfg == nil {
		cfg, err := env.NewWheelConfigFromYAML(env.GamesConfigPath())
		if err != nil {
			panic("failed to get wheel config: " + err.Error())
		}
		sp.wheelCfg = cfg
	}
	return sp.wheelCfg
}

func (sp *ServiceProvider) EliminationCfg() config.EliminationConfig {
	if sp.eliminationCfg == nil {
		cfg, err := env.NewEliminationConfigFromYAML(env.GamesConfigPath())
		if err != nil {
			panic("failed to get elimination config: " + err.Error())
		}
		sp.eliminationCfg = cfg
	}
	return sp.eliminationCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		l, err := logger.New(sp.AppCfg().ServiceName(), sp.AppCfg().Env())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = l
	}
	return sp.log
}

func (sp *ServiceProvider) Registry() *prometheus.Registry {
	if sp.registry == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sp.registry = reg
	}
	return sp.registry
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New(sp.Registry())
	}
	return sp.metrics
}

func (sp *ServiceProvider) usePostgres() bool {
	return sp.AppCfg().Storage() == env.StoragePostgres
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if !sp.usePostgres() {
			sp.txManager = memory_repo.NewTxManager()
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

// RedisClient - nil, если REDIS_ADDR не задан
func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil && sp.RedisCfg().Addr() != "" {
		rdb := redis.NewClient(&redis.Options{Addr: sp.RedisCfg().Addr()})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

func (sp *ServiceProvider) Publisher() producer.Publisher {
	if sp.publisher == nil {
		brokers := sp.KafkaCfg().Brokers()
		if len(brokers) == 0 {
			sp.Logger().Info("kafka brokers not set, game events are not published")
			sp.publisher = producer.NewNoopPublisher()
			return sp.publisher
		}

		sp.kafkaWriter = producer.NewWriter(brokers, sp.KafkaCfg().TopicGameResolved())
		sp.publisher = producer.NewKafkaPublisher(sp.kafkaWriter)
	}
	return sp.publisher
}

func (sp *ServiceProvider) AccountRepository(ctx context.Context) repository.AccountRepository {
	if sp.accountRepo == nil {
		if sp.usePostgres() {
			sp.accountRepo = account_repo.NewAccountRepository(sp.DBClient(ctx))
		} else {
			sp.accountRepo = memory_repo.NewAccountRepository()
		}
	}
	return sp.accountRepo
}

func (sp *ServiceProvider) HistoryRepository(ctx context.Context) repository.HistoryRepository {
	if sp.historyRepo == nil {
		if sp.usePostgres() {
			sp.historyRepo = history_repo.NewHistoryRepository(sp.DBClient(ctx))
		} else {
			sp.historyRepo = memory_repo.NewHistoryRepository()
		}
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) SessionRepository(ctx context.Context) repository.SessionRepository {
	if sp.sessionRepo == nil {
		if rdb := sp.RedisClient(ctx); rdb != nil {
			sp.sessionRepo = session_repo.NewSessionRepository(rdb, sp.RedisCfg().SessionTTL())
		} else {
			sp.sessionRepo = memory_repo.NewSessionRepository()
		}
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) StatsRepository() repository.StatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository()
	}
	return sp.statsRepo
}

// RandomSource - с RNG_SEED раунды воспроизводимы, без него crypto/rand
func (sp *ServiceProvider) RandomSource() rng.Source {
	if sp.randomSource == nil {
		seed := sp.AppCfg().RNGSeed()
		if seed == nil {
			sp.randomSource = rng.NewCryptoSource()
			return sp.randomSource
		}

		src, err := rng.NewSeededSource(seed)
		if err != nil {
			panic("failed to create seeded random source: " + err.Error())
		}
		sp.Logger().Warn("using seeded random source, outcomes are reproducible")
		sp.randomSource = src
	}
	return sp.randomSource
}

func (sp *ServiceProvider) EliminationEngine() *elimination.Engine {
	if sp.eliminationEngine == nil {
		e, err := elimination.NewEngine(sp.EliminationCfg().Chambers(), sp.EliminationCfg().FireOdds(), sp.RandomSource())
		if err != nil {
			panic("failed to create elimination engine: " + err.Error())
		}
		sp.eliminationEngine = e
	}
	return sp.eliminationEngine
}

func (sp *ServiceProvider) WheelEngine() *wheel.Engine {
	if sp.wheelEngine == nil {
		e, err := wheel.NewEngine(sp.WheelCfg().Segments(), sp.RandomSource())
		if err != nil {
			panic("failed to create wheel engine: " + err.Error())
		}
		sp.wheelEngine = e
	}
	return sp.wheelEngine
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(
			sp.AccountRepository(ctx),
			sp.HistoryRepository(ctx),
			sp.TXManager(ctx),
			sp.Metrics(),
			sp.Logger().Named("ledger"),
		)
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) GameSessionService(ctx context.Context) service.GameSessionService {
	if sp.gameServ == nil {
		sp.gameServ = session.NewGameSessionService(
			sp.LedgerService(ctx),
			sp.EliminationEngine(),
			sp.WheelEngine(),
			sp.SessionRepository(ctx),
			sp.StatsRepository(),
			sp.Publisher(),
			sp.Metrics(),
			sp.Logger().Named("games"),
		)
	}
	return sp.gameServ
}

func (sp *ServiceProvider) EliminationHandler(ctx context.Context) *eliminationAPI.Handler {
	if sp.eliminationHand == nil {
		sp.eliminationHand = eliminationAPI.NewHandler(eliminationAPI.HandlerDeps{
			Serv: sp.GameSessionService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.eliminationHand
}

func (sp *ServiceProvider) WheelHandler(ctx context.Context) *wheelAPI.Handler {
	if sp.wheelHand == nil {
		sp.wheelHand = wheelAPI.NewHandler(wheelAPI.HandlerDeps{
			Serv: sp.GameSessionService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.wheelHand
}

func (sp *ServiceProvider) AccountHandler(ctx context.Context) *accountAPI.Handler {
	if sp.accountHand == nil {
		sp.accountHand = accountAPI.NewHandler(accountAPI.HandlerDeps{
			Ledger:         sp.LedgerService(ctx),
			Games:          sp.GameSessionService(ctx),
			InitialBalance: sp.AppCfg().InitialBalance(),
			Log:            sp.Logger(),
		})
	}
	return sp.accountHand
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(sp.HTTPCfg().Timeout()))

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Elimination endpoints
		eliminationHandler := sp.EliminationHandler(ctx)
		r.Route("/elimination", func(rr chi.Router) {
			rr.Post("/start", eliminationHandler.Start)
			rr.Get("/{sessionID}", eliminationHandler.Get)
			rr.Post("/{sessionID}/spin-barrel", eliminationHandler.SpinBarrel)
			rr.Post("/{sessionID}/pull-trigger", eliminationHandler.PullTrigger)
			rr.Post("/{sessionID}/quit", eliminationHandler.Quit)
		})

		// Wheel endpoints
		wheelHandler := sp.WheelHandler(ctx)
		r.Route("/wheel", func(rr chi.Router) {
			rr.Post("/spin", wheelHandler.Spin)
			rr.Get("/segments", wheelHandler.Segments)
		})

		// Account endpoints
		accountHandler := sp.AccountHandler(ctx)
		r.Route("/accounts", func(rr chi.Router) {
			rr.Post("/", accountHandler.Open)
			rr.Get("/{accountID}/balance", accountHandler.Balance)
			rr.Post("/{accountID}/deposit", accountHandler.Deposit)
			rr.Get("/{accountID}/history", accountHandler.History)
			rr.Delete("/{accountID}/history", accountHandler.ClearHistory)
		})

		r.Get("/stats", accountHandler.Stats)

		sp.router = r
	}

	return sp.router
}

// HealthCheck - пинг внешних хранилищ, которые реально используются
func (sp *ServiceProvider) HealthCheck(ctx context.Context) error {
	if sp.dbClient != nil {
		if err := sp.dbClient.Ping(ctx); err != nil {
			return err
		}
	}
	if sp.redisClient != nil {
		if err := sp.redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает соединения в обратном порядке
func (sp *ServiceProvider) Close() {
	if sp.kafkaWriter != nil {
		if err := sp.kafkaWriter.Close(); err != nil {
			sp.Logger().Warn("close kafka writer", zap.Error(err))
		}
	}
	if sp.redisClient != nil {
		if err := sp.redisClient.Close(); err != nil {
			sp.Logger().Warn("close redis", zap.Error(err))
		}
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.log != nil {
		_ = sp.log.Sync()
	}
}
