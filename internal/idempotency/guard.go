package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/config"
)

// redisAPI abstracts the Redis commands the guard uses, for testability.
type redisAPI interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Guard is a best-effort duplicate-event detector backed by Redis. Marking
// and checking are a single atomic SET NX, so two concurrent requests for
// the same event id resolve to exactly one "new" answer.
//
// A nil *Guard is valid and reports every event as new; callers hold a nil
// guard when idempotency is disabled.
type Guard struct {
	client    redisAPI
	keyPrefix string
	ttl       time.Duration
	log       zerolog.Logger
}

// New creates a guard from the idempotency config. Returns nil when the
// guard is disabled.
func New(cfg config.IdempotencyConfig, log zerolog.Logger) *Guard {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return newGuard(client, cfg, log)
}

// newGuard wires a guard to a redisAPI. Used directly in tests.
func newGuard(client redisAPI, cfg config.IdempotencyConfig, log zerolog.Logger) *Guard {
	return &Guard{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		log:       log.With().Str("component", "idempotency").Logger(),
	}
}

// MarkIfNew records the event id and reports whether it was seen for the
// first time. The record expires after the configured TTL, so replays
// arriving later than that are treated as new again.
func (g *Guard) MarkIfNew(ctx context.Context, eventID string) (bool, error) {
	if g == nil {
		return true, nil
	}

	key := g.keyPrefix + eventID
	fresh, err := g.client.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency mark %s: %w", eventID, err)
	}

	if !fresh {
		g.log.Info().Str("event_id", eventID).Msg("duplicate event detected")
	}
	return fresh, nil
}
