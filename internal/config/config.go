package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Provider    ProviderConfig    `mapstructure:"provider"`
}

// APIConfig holds HTTP server configuration.
type APIConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"` // stdout (default), file, cloudwatch
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
	CWGroup   string `mapstructure:"cloudwatch_group"`
	CWStream  string `mapstructure:"cloudwatch_stream"`
	CWRegion  string `mapstructure:"cloudwatch_region"`
}

// SecretsConfig identifies the credential bundle in AWS Secrets Manager.
type SecretsConfig struct {
	Name   string `mapstructure:"name"` // secret name or ARN
	Region string `mapstructure:"region"`
}

// QueueConfig holds SQS queue configuration.
type QueueConfig struct {
	QueueURL        string        `mapstructure:"queue_url"`
	DLQueueURL      string        `mapstructure:"dlq_url"`
	Region          string        `mapstructure:"region"`
	WaitTime        int32         `mapstructure:"wait_time"`          // long poll seconds, default 20
	VisTimeout      int32         `mapstructure:"visibility_timeout"` // seconds, default 30
	WorkerCount     int           `mapstructure:"worker_count"`
	ProcessTimeout  time.Duration `mapstructure:"process_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// IngestConfig tunes the ingest handler.
type IngestConfig struct {
	// DelaySeconds is the visibility delay applied to every queued job.
	DelaySeconds int32 `mapstructure:"delay_seconds"`
}

// IdempotencyConfig holds the optional Redis duplicate-event guard settings.
type IdempotencyConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ProviderConfig tunes the messaging provider client.
type ProviderConfig struct {
	// Endpoint overrides the Twilio API base URL (tests, sandboxes).
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the given config directory path.
// It looks for a file named "config.yaml" in that directory.
// Environment variables with prefix SMS_RELAY_ override file values.
// For example, SMS_RELAY_QUEUE_QUEUE_URL overrides queue.queue_url.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("SMS_RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Ingest.DelaySeconds == 0 {
		cfg.Ingest.DelaySeconds = 120
	}
	if cfg.Queue.WaitTime == 0 {
		cfg.Queue.WaitTime = 20
	}
	if cfg.Queue.VisTimeout == 0 {
		cfg.Queue.VisTimeout = 30
	}
	if cfg.Queue.WorkerCount == 0 {
		cfg.Queue.WorkerCount = 2
	}
	if cfg.Queue.ProcessTimeout == 0 {
		cfg.Queue.ProcessTimeout = 30 * time.Second
	}
	if cfg.Queue.ShutdownTimeout == 0 {
		cfg.Queue.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
	if cfg.Idempotency.KeyPrefix == "" {
		cfg.Idempotency.KeyPrefix = "idem:event:"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
}

// Validate checks the values every binary needs. A missing required value is
// a fatal startup condition for the component that needs it.
func (c *Config) Validate() error {
	var missing []string

	if c.Secrets.Name == "" {
		missing = append(missing, "secrets.name")
	}
	if c.Queue.QueueURL == "" {
		missing = append(missing, "queue.queue_url")
	}
	if c.Queue.Region == "" {
		missing = append(missing, "queue.region")
	}
	if c.Idempotency.Enabled && c.Idempotency.RedisAddr == "" {
		missing = append(missing, "idempotency.redis_addr")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
