package logger

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/config"
)

type contextKey string

const (
	loggerKey        contextKey = "logger"
	correlationIDKey contextKey = "correlation_id"
)

// New creates a zerolog.Logger with the specified level and JSON output.
// If the level string is invalid, it defaults to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewFromConfig creates a zerolog.Logger from a LoggingConfig, selecting the
// output writer based on cfg.Output:
//   - "file": rotating file via lumberjack
//   - "cloudwatch": CloudWatch Logs
//   - "stdout" or any other value: os.Stdout (default)
func NewFromConfig(cfg config.LoggingConfig) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writer io.Writer
	switch cfg.Output {
	case "file":
		writer = NewFileWriter(FileConfig{
			Path:      cfg.FilePath,
			MaxSizeMB: cfg.MaxSizeMB,
			MaxFiles:  cfg.MaxFiles,
		})
	case "cloudwatch":
		writer = NewCloudWatchWriter(CloudWatchConfig{
			Group:  cfg.CWGroup,
			Stream: cfg.CWStream,
			Region: cfg.CWRegion,
		})
	default:
		writer = os.Stdout
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithCorrelationID stores a correlation ID in the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext retrieves the correlation ID from the context.
// Returns an empty string if none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext retrieves the logger from the context. If a correlation ID is
// present it is attached as a field. Falls back to a default stdout logger.
func FromContext(ctx context.Context) zerolog.Logger {
	log, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		log = New("info")
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		log = log.With().Str("correlation_id", id).Logger()
	}
	return log
}

// NewCorrelationID generates a new UUID-based correlation ID.
func NewCorrelationID() string {
	return uuid.New().String()
}
