package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/config"
)

// mockRedis implements redisAPI for testing.
type mockRedis struct {
	seen map[string]bool
	keys []string
	ttls []time.Duration
	err  error
}

func (m *mockRedis) SetNX(ctx context.Context, key string, _ interface{}, expiration time.Duration) *redis.BoolCmd {
	m.keys = append(m.keys, key)
	m.ttls = append(m.ttls, expiration)
	if m.err != nil {
		cmd := redis.NewBoolCmd(ctx)
		cmd.SetErr(m.err)
		return cmd
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	fresh := !m.seen[key]
	m.seen[key] = true
	return redis.NewBoolResult(fresh, nil)
}

func testGuardConfig() config.IdempotencyConfig {
	return config.IdempotencyConfig{
		Enabled:   true,
		KeyPrefix: "idem:event:",
		TTL:       24 * time.Hour,
	}
}

func TestGuard_MarkIfNew_FirstThenDuplicate(t *testing.T) {
	mock := &mockRedis{}
	g := newGuard(mock, testGuardConfig(), zerolog.Nop())

	fresh, err := g.MarkIfNew(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh {
		t.Error("first sighting should be new")
	}

	fresh, err = g.MarkIfNew(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh {
		t.Error("second sighting should be a duplicate")
	}

	if mock.keys[0] != "idem:event:evt-1" {
		t.Errorf("unexpected key: %s", mock.keys[0])
	}
	if mock.ttls[0] != 24*time.Hour {
		t.Errorf("unexpected ttl: %s", mock.ttls[0])
	}
}

func TestGuard_MarkIfNew_DistinctEvents(t *testing.T) {
	g := newGuard(&mockRedis{}, testGuardConfig(), zerolog.Nop())

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		fresh, err := g.MarkIfNew(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fresh {
			t.Errorf("event %s should be new", id)
		}
	}
}

func TestGuard_MarkIfNew_RedisError(t *testing.T) {
	g := newGuard(&mockRedis{err: errors.New("connection refused")}, testGuardConfig(), zerolog.Nop())

	if _, err := g.MarkIfNew(context.Background(), "evt-1"); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}

func TestGuard_NilGuardAlwaysNew(t *testing.T) {
	var g *Guard
	fresh, err := g.MarkIfNew(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh {
		t.Error("nil guard must report every event as new")
	}
}

func TestNew_DisabledReturnsNil(t *testing.T) {
	if g := New(config.IdempotencyConfig{Enabled: false}, zerolog.Nop()); g != nil {
		t.Error("disabled guard should be nil")
	}
}
