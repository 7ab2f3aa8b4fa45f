package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/job-monitor/internal/broker"
	"github.com/spigell/job-monitor/internal/metrics"
	"github.com/spigell/job-monitor/internal/notify"
	"github.com/spigell/job-monitor/internal/pipeline"
	"github.com/spigell/job-monitor/internal/profile"
	"github.com/spigell/job-monitor/internal/scheduler"
	"github.com/spigell/job-monitor/internal/storage/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for postings and notify matching candidates",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := mustSetup()
	defer logger.Sync()

	logger.Info("starting the job-monitor", zap.String("version", version))

	pool, err := openDatabase(ctx, config.Database)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := openRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("connecting to redis", zap.Error(err))
	}
	defer rdb.Close()

	extractor, err := newExtractor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the extractor", zap.Error(err))
	}

	store := postgres.NewStore(pool)
	units := store.Units()
	recorder := metrics.NewRecorder()

	profiles := profile.NewService(units.Candidate, extractor, logger.Named("profile"))
	dispatcher := notify.NewDispatcher(
		broker.NewDeliverer(rdb, config.Redis.NotificationStream, config.Redis.UnreachableSet),
		profiles,
		logger.Named("notify"),
	)

	ingestor := pipeline.NewIngestor(pipeline.Deps{
		Units:     units,
		Mirror:    broker.NewMirror(rdb, config.Redis.MirrorStream, config.Redis.MirrorMaxLen),
		Extractor: extractor,
		Notifier:  dispatcher,
		Recorder:  recorder,
	}, pipeline.Config{
		ExtractionTimeout:       config.Pipeline.ExtractionTimeout,
		RejectionRatioThreshold: config.Pipeline.RejectionRatioThreshold,
	}, logger.Named("pipeline"))

	retention := scheduler.New(units.Vacancy, config.Retention.Schedule, config.Retention.MaxAge, logger.Named("retention"))
	if err := retention.Start(ctx); err != nil {
		logger.Fatal("starting the retention scheduler", zap.Error(err))
	}
	defer retention.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if config.Metrics.Enabled {
		server := metrics.NewServer(config.Metrics.Addr, recorder, map[string]metrics.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}, logger.Named("metrics"))
		g.Go(func() error { return server.Run(gctx) })
	}

	source := broker.NewSource(rdb, config.Redis.SourceChannel, config.Redis.Chats, logger.Named("source"))
	listener := pipeline.NewListener(ingestor, config.Pipeline.Concurrency, logger.Named("listener"))
	g.Go(func() error { return listener.Run(gctx, source) })

	if err := g.Wait(); err != nil {
		logger.Error("job-monitor stopped with error", zap.Error(err))
		return
	}

	logger.Info("job-monitor stopped")
}
