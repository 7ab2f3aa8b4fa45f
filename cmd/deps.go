package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/ai/gemini"
	"github.com/spigell/job-monitor/internal/broker"
	"github.com/spigell/job-monitor/internal/logger"
	"github.com/spigell/job-monitor/internal/secrets"
	"github.com/spigell/job-monitor/internal/storage/postgres"
)

// mustSetup builds the logger and config shared by every command.
func mustSetup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

func openDatabase(ctx context.Context, cfg *DatabaseConfig) (*pgxpool.Pool, error) {
	url, err := secrets.Load(secrets.Source{
		Name:  "database url",
		File:  cfg.URLFile,
		Value: cfg.URL,
		Env:   envPrefix + "_DATABASE_URL",
	})
	if err != nil {
		return nil, err
	}

	return postgres.NewPool(ctx, url, cfg.MaxConns)
}

func openRedis(ctx context.Context, cfg *RedisConfig) (*redis.Client, error) {
	return broker.NewRedisClient(ctx, cfg.URL)
}

func newExtractor(ctx context.Context, cfg *AIConfig, base *zap.Logger) (*gemini.Extractor, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(base, "gemini", cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
