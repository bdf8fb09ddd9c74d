package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventTTL is how long a processed webhook event id is remembered.
const EventTTL = 72 * time.Hour

// Key prefixes of the redis-backed logs.
const (
	WebhookEventPrefix = "webhook:event:"
	ReminderPrefix     = "reminder:sent:"
)

// EventLog records processed ids (webhook events, sent reminders) so
// repeated work is skipped.
type EventLog interface {
	// Claim returns true the first time id is seen.
	Claim(ctx context.Context, id string) (bool, error)
	// Seen reports whether id was claimed and not released.
	Seen(ctx context.Context, id string) (bool, error)
	// Release forgets id so a failed delivery can be processed again.
	Release(ctx context.Context, id string) error
}

// RedisEventLog stores event ids in redis with SET NX.
type RedisEventLog struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisEventLog(client *goredis.Client, prefix string) *RedisEventLog {
	return &RedisEventLog{client: client, prefix: prefix, ttl: EventTTL}
}

func (l *RedisEventLog) Claim(ctx context.Context, id string) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+id, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
}

func (l *RedisEventLog) Seen(ctx context.Context, id string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+id).Result()
	return n > 0, err
}

func (l *RedisEventLog) Release(ctx context.Context, id string) error {
	return l.client.Del(ctx, l.prefix+id).Err()
}

// MemoryEventLog keeps event ids in process memory. Used when redis is not
// configured.
type MemoryEventLog struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{seen: make(map[string]time.Time), ttl: EventTTL, now: time.Now}
}

func (l *MemoryEventLog) Claim(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.expire(now)

	if _, ok := l.seen[id]; ok {
		return false, nil
	}
	l.seen[id] = now
	return true, nil
}

func (l *MemoryEventLog) Seen(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(l.now())
	_, ok := l.seen[id]
	return ok, nil
}

// expire drops ids older than the TTL. Callers hold mu.
func (l *MemoryEventLog) expire(now time.Time) {
	for k, at := range l.seen {
		if now.Sub(at) > l.ttl {
			delete(l.seen, k)
		}
	}
}

func (l *MemoryEventLog) Release(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.seen, id)
	return nil
}
