package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/importer"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/infra/postgres"
	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/logging"
	"vocab-quiz-service/internal/metrics"
	transport "vocab-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	roundDuration, err := cfg.RoundDuration()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		reader      app.SetReader
		writer      app.SetWriter
		leaderboard app.LeaderboardStore
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db := postgres.OpenBun(cfg.Postgres.URL)
		defer db.Close()

		store := postgres.NewStore(db)
		reader, writer, leaderboard = postgres.NewSetLoader(pool), store, store
	} else {
		logger.Warn("postgres url not configured; using in-memory store with sample data")
		store := memory.NewStore()
		seedSample(store)
		reader, writer, leaderboard = store, store, store
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	var sets app.SetReader
	var plays app.PlayRepository
	if redisClient != nil {
		sets = redisinfra.NewSetRepository(redisClient, reader, cacheTTL)
		plays = redisinfra.NewPlayStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute), logger)
	} else {
		sets = memory.NewSetRepository(reader, cacheTTL)
		plays = memory.NewPlayStore()
	}

	recorder := metrics.New()
	playService, err := app.NewPlayService(sets, plays, roundDuration, logger, recorder,
		app.WithRetention(config.TTLDuration(cfg.Round.Retention, app.DefaultPlayRetention)),
	)
	if err != nil {
		return err
	}
	handler := transport.NewHandler(
		app.NewCatalogService(sets),
		playService,
		app.NewLeaderboardService(leaderboard, cfg.Leaderboard.Limit),
		app.NewResultsService(leaderboard, logger, recorder),
		app.NewImportService(writer, importer.NewFactory(), logger, recorder),
		logger,
	)
	router := transport.NewRouter(handler, transport.NewWSHandler(playService, logger), recorder.Handler(), logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting vocab service", "port", finalPort, "round_duration", roundDuration)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// seedSample loads a tiny demo set; production data comes from Postgres via the importer.
func seedSample(store *memory.Store) {
	words := []domain.Word{
		{
			ID:          "w-ephemeral",
			Word:        "ephemeral",
			Meaning:     "lasting for a very short time",
			Distractor1: "lasting forever",
			Distractor2: "extremely large",
			Distractor3: "difficult to understand",
			Synonym1:    ptr("fleeting"),
			Synonym2:    ptr("transient"),
			Antonym1:    ptr("permanent"),
			Antonym2:    ptr("enduring"),
			Example:     "Fame in the digital age is often ephemeral.",
		},
		{
			ID:          "w-candid",
			Word:        "candid",
			Meaning:     "truthful and straightforward",
			Distractor1: "secretive",
			Distractor2: "sweet-tasting",
			Distractor3: "brightly lit",
			Synonym1:    ptr("frank"),
			Synonym2:    ptr("honest"),
			Antonym1:    ptr("guarded"),
			Example:     "She gave a candid account of the negotiations.",
		},
		{
			ID:          "w-lucid",
			Word:        "lucid",
			Meaning:     "expressed clearly; easy to understand",
			Distractor1: "heavy and slow",
			Distractor2: "lucky by chance",
			Distractor3: "loud and noisy",
			Synonym1:    ptr("clear"),
			Antonym1:    ptr("confusing"),
			Example:     "The professor gave a lucid explanation of the theorem.",
		},
	}
	ids := make([]string, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	store.Seed(domain.Set{ID: "sample", Name: "Sample Vocabulary", WordIDs: ids}, words)
}

func ptr(s string) *string { return &s }
