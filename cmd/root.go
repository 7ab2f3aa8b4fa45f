package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "job-monitor"
	envPrefix = "JOB_MONITOR"
)

type Config struct {
	Database  *DatabaseConfig  `mapstructure:"database"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	AI        *AIConfig        `mapstructure:"ai"`
	Pipeline  *PipelineConfig  `mapstructure:"pipeline"`
	Metrics   *MetricsConfig   `mapstructure:"metrics"`
	Retention *RetentionConfig `mapstructure:"retention"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	URLFile  string `mapstructure:"url-file"`
	MaxConns int32  `mapstructure:"max-conns"`
}

type RedisConfig struct {
	URL                string   `mapstructure:"url"`
	SourceChannel      string   `mapstructure:"source-channel"`
	Chats              []string `mapstructure:"chats"`
	MirrorStream       string   `mapstructure:"mirror-stream"`
	MirrorMaxLen       int64    `mapstructure:"mirror-max-len"`
	NotificationStream string   `mapstructure:"notification-stream"`
	UnreachableSet     string   `mapstructure:"unreachable-set"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type PipelineConfig struct {
	Concurrency             int           `mapstructure:"concurrency"`
	ExtractionTimeout       time.Duration `mapstructure:"extraction-timeout"`
	RejectionRatioThreshold float64       `mapstructure:"rejection-ratio-threshold"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type RetentionConfig struct {
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max-age"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-monitor collects job postings from chats, deduplicates them and notifies matching candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-monitor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.max-conns", 10)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.source-channel", "job-monitor:postings")
	v.SetDefault("redis.mirror-stream", "job-monitor:mirror")
	v.SetDefault("redis.mirror-max-len", 100000)
	v.SetDefault("redis.notification-stream", "job-monitor:notifications")
	v.SetDefault("redis.unreachable-set", "job-monitor:unreachable")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 2000)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.extraction-timeout", time.Minute)
	v.SetDefault("pipeline.rejection-ratio-threshold", 0.8)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("retention.schedule", "@every 24h")
	v.SetDefault("retention.max-age", 720*time.Hour)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file everything comes from defaults and the environment.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	config.fill()

	return config, config.Validate()
}

// fill replaces missing sections so callers never check for nil.
func (c *Config) fill() {
	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}
	if c.Pipeline == nil {
		c.Pipeline = &PipelineConfig{}
	}
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if c.Retention == nil {
		c.Retention = &RetentionConfig{}
	}
}

func (c *Config) Validate() error {
	var errs []error

	if p := strings.ToLower(strings.TrimSpace(c.AI.Provider)); p != "" && p != "gemini" {
		errs = append(errs, fmt.Errorf("ai.provider: unsupported provider %q", c.AI.Provider))
	}
	if c.Pipeline.Concurrency < 0 {
		errs = append(errs, errors.New("pipeline.concurrency: must not be negative"))
	}
	if t := c.Pipeline.RejectionRatioThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("pipeline.rejection-ratio-threshold: %v is outside [0, 1]", t))
	}
	if c.Retention.MaxAge < 0 {
		errs = append(errs, errors.New("retention.max-age: must not be negative"))
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		errs = append(errs, errors.New("metrics.addr: required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
