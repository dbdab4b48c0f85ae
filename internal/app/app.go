package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/courtside/pickup-queue/external/scoreboard"
	"github.com/courtside/pickup-queue/internal/config"
	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/game"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/domain/user"
	"github.com/courtside/pickup-queue/internal/infrastructure/repository/memory"
	"github.com/courtside/pickup-queue/internal/infrastructure/repository/postgres"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	"github.com/courtside/pickup-queue/internal/interfaces/httpapi"
	"github.com/courtside/pickup-queue/internal/platform/cache"
	idgen "github.com/courtside/pickup-queue/internal/platform/id"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
	"github.com/courtside/pickup-queue/internal/platform/resilience"
	"github.com/courtside/pickup-queue/internal/usecase"
)

// App holds the wired HTTP server and the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	sets     gameset.Repository
	checkins checkin.Repository
	games    game.Repository
	users    user.Repository
	runner   storage.Runner
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	locks := locking.NewKeyedMutex()
	ids := idgen.NewHexGenerator()
	snapshots := cache.NewStore(cfg.CacheTTL)

	policy := usecase.ReplacementPolicy{
		HomeRequiresReplacement: cfg.HomeCheckoutRequiresReplacement,
		AwayRequiresReplacement: cfg.AwayCheckoutRequiresReplacement,
	}

	gameSetSvc := usecase.NewGameSetService(repos.sets, repos.runner, locks, ids, logger)
	queueSvc := usecase.NewQueueService(repos.sets, repos.checkins, repos.users, repos.runner, locks, snapshots, ids, logger)
	checkoutSvc := usecase.NewCheckoutService(repos.sets, repos.checkins, repos.games, repos.runner, locks, snapshots, policy, logger)
	promotions := usecase.NewPromotionCalculator(repos.games)
	gameSvc := usecase.NewGameService(
		repos.sets, repos.checkins, repos.games, repos.users,
		promotions, repos.runner, locks, snapshots, ids, logger,
	)
	recordsSvc := usecase.NewRecordsService(repos.sets, repos.games, cfg.RecordsMaxWorkers, logger)

	if cfg.ScoreboardEnabled {
		gameSvc.SetScorePublisher(scoreboard.NewClient(scoreboard.Config{
			BaseURL: cfg.ScoreboardBaseURL,
			Token:   cfg.ScoreboardToken,
			Timeout: cfg.ScoreboardTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ScoreboardCircuitEnabled,
				FailureThreshold: cfg.ScoreboardCircuitFailureCount,
				OpenTimeout:      cfg.ScoreboardCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ScoreboardCircuitHalfOpenMaxReq,
			},
		}, logger))
	}

	handler := httpapi.NewHandler(gameSetSvc, queueSvc, checkoutSvc, gameSvc, recordsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server: server,
		db:     db,
		logger: logger,
	}, nil
}

// Close releases resources the app owns beyond the HTTP server.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend selected", "backend", "memory")
		return repositories{
			sets:     memory.NewGameSetRepository(nil),
			checkins: memory.NewCheckinRepository(nil),
			games:    memory.NewGameRepository(nil),
			users:    memory.NewUserRepository(memory.SeedUsers()),
			runner:   storage.DirectRunner{},
		}, nil, nil
	}

	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL))
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	logger.Info("storage backend selected", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		sets:     postgres.NewGameSetRepository(db),
		checkins: postgres.NewCheckinRepository(db),
		games:    postgres.NewGameRepository(db),
		users:    postgres.NewUserRepository(db),
		runner:   postgres.NewTxRunner(db),
	}, db, nil
}
