package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/broker"
	"github.com/spigell/job-monitor/internal/metrics"
	"github.com/spigell/job-monitor/internal/notify"
	"github.com/spigell/job-monitor/internal/pipeline"
	"github.com/spigell/job-monitor/internal/profile"
	"github.com/spigell/job-monitor/internal/storage/postgres"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Push one posting through the pipeline and print the outcome",
	Run: func(cmd *cobra.Command, _ []string) {
		ingest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("file", "f", "", "file with the posting text (default is stdin)")
	ingestCmd.Flags().String("chat", "manual", "source chat recorded for the posting")
	ingestCmd.Flags().String("message-id", "", "source message id (default is a random id)")
	ingestCmd.Flags().Bool("notify", false, "deliver notifications to matched candidates instead of only logging them")
	ingestCmd.Flags().Bool("publish", false, "publish the posting to the source channel for a running serve instead of processing it here")
}

func ingest(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := mustSetup()

	file, _ := cmd.Flags().GetString("file")
	text, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		logger.Fatal("reading the posting", zap.Error(err))
	}

	chat, _ := cmd.Flags().GetString("chat")
	messageID, _ := cmd.Flags().GetString("message-id")
	if messageID == "" {
		messageID = uuid.NewString()
	}

	msg := pipeline.Message{
		Chat:       broker.NormalizeChat(chat),
		MessageID:  messageID,
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}

	rdb, err := openRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("connecting to redis", zap.Error(err))
	}
	defer rdb.Close()

	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		if err := broker.Publish(ctx, rdb, config.Redis.SourceChannel, msg); err != nil {
			logger.Fatal("publishing the posting", zap.Error(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published %s/%s to %s\n", msg.Chat, msg.MessageID, config.Redis.SourceChannel)
		return
	}

	pool, err := openDatabase(ctx, config.Database)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer pool.Close()

	extractor, err := newExtractor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the extractor", zap.Error(err))
	}

	units := postgres.NewStore(pool).Units()

	var notifier pipeline.Notifier = notify.Noop{Logger: logger}
	if doNotify, _ := cmd.Flags().GetBool("notify"); doNotify {
		notifier = notify.NewDispatcher(
			broker.NewDeliverer(rdb, config.Redis.NotificationStream, config.Redis.UnreachableSet),
			profile.NewService(units.Candidate, extractor, logger),
			logger,
		)
	}

	ingestor := pipeline.NewIngestor(pipeline.Deps{
		Units:     units,
		Mirror:    broker.NewMirror(rdb, config.Redis.MirrorStream, config.Redis.MirrorMaxLen),
		Extractor: extractor,
		Notifier:  notifier,
		Recorder:  metrics.NewRecorder(),
	}, pipeline.Config{
		ExtractionTimeout:       config.Pipeline.ExtractionTimeout,
		RejectionRatioThreshold: config.Pipeline.RejectionRatioThreshold,
	}, logger)

	outcome := ingestor.Process(ctx, msg)

	printOutcome(cmd.OutOrStdout(), outcome)
	if outcome.State == pipeline.StateFailed {
		os.Exit(1)
	}
}

func printOutcome(w io.Writer, o pipeline.Outcome) {
	fmt.Fprintf(w, "state:   %s\n", o.State)
	fmt.Fprintf(w, "trail:   %s\n", joinStates(o.Trail))
	if !o.VacancyID.IsZero() {
		fmt.Fprintf(w, "vacancy: %s\n", o.VacancyID)
	}
	if o.ContentHash != "" {
		fmt.Fprintf(w, "hash:    %s\n", o.ContentHash)
	}
	if !o.Mirror.IsZero() {
		fmt.Fprintf(w, "mirror:  %s\n", o.Mirror)
	}
	fmt.Fprintf(w, "matched: %d\n", len(o.Matched))
	if o.Err != nil {
		fmt.Fprintf(w, "error:   %v\n", o.Err)
	}
}

func joinStates(states []pipeline.State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	return strings.Join(names, " -> ")
}

// readInput reads path, or r when path is empty or "-".
func readInput(r io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
