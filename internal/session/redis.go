package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisManager keeps calls in Redis so multiple hotline nodes can serve turns
// for the same call. Entries expire after the configured TTL; an expired call
// simply restarts at the greeting.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager connects to Redis at redisURL (redis://[:pass@]host:port/db)
// and verifies the connection. A non-positive ttl falls back to DefaultTTL.
func NewRedisManager(redisURL string, ttl time.Duration) (*RedisManager, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("RedisManager: connected", "ttl", ttl)
	return &RedisManager{client: client, ttl: ttl}, nil
}

func (m *RedisManager) callKey(callSID string) string {
	return fmt.Sprintf("call:%s", callSID)
}

func (m *RedisManager) Get(ctx context.Context, callSID string) (*Call, error) {
	data, err := m.client.Get(ctx, m.callKey(callSID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load call from Redis: %w", err)
	}
	var call Call
	if err := json.Unmarshal([]byte(data), &call); err != nil {
		return nil, fmt.Errorf("failed to parse call data: %w", err)
	}
	return &call, nil
}

func (m *RedisManager) Save(ctx context.Context, call *Call) error {
	call.LastActive = time.Now()
	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("failed to marshal call: %w", err)
	}
	if err := m.client.Set(ctx, m.callKey(call.CallSID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save call to Redis: %w", err)
	}
	return nil
}

func (m *RedisManager) Delete(ctx context.Context, callSID string) error {
	if err := m.client.Del(ctx, m.callKey(callSID)).Err(); err != nil {
		return fmt.Errorf("failed to delete call: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (m *RedisManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisManager) Close() error {
	return m.client.Close()
}
