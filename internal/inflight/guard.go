package inflight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/rishangit/s-ams-sub002/internal/httperr"
)

// ErrInFlight rejects a second mutation while one is outstanding.
var ErrInFlight = httperr.ErrBusiness("in_flight")

// Guard admits at most one outstanding mutation per appointment.
type Guard interface {
	Acquire(ctx context.Context, appointmentID uint) (release func(), err error)
}

func key(appointmentID uint) string {
	return fmt.Sprintf("ams:inflight:appointment:%d", appointmentID)
}

// ===============================
// Redis (shared across instances)
// ===============================

type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (g *RedisGuard) Acquire(ctx context.Context, appointmentID uint) (func(), error) {
	k := key(appointmentID)
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, k, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("inflight acquire: %w", err)
	}
	if !ok {
		return nil, ErrInFlight
	}

	return func() {
		_ = releaseScript.Run(context.Background(), g.client, []string{k}, token).Err()
	}, nil
}

// ===============================
// Local (single instance)
// ===============================

type LocalGuard struct {
	mu   sync.Mutex
	busy map[uint]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{busy: make(map[uint]struct{})}
}

func (g *LocalGuard) Acquire(_ context.Context, appointmentID uint) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.busy[appointmentID]; taken {
		return nil, ErrInFlight
	}
	g.busy[appointmentID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, appointmentID)
			g.mu.Unlock()
		})
	}, nil
}

// New picks the redis guard when a URL is configured.
func New(redisURL string, ttl time.Duration) (Guard, error) {
	if redisURL == "" {
		return NewLocalGuard(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisGuard(redis.NewClient(opts), ttl), nil
}
