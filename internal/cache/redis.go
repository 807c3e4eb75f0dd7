package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "teamstats:fetch:"

// Redis stores tables in a Redis instance shared by several API replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

type redisEnvelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// NewRedis connects to redisURL and verifies the connection. A zero ttl
// keeps keys until deleted.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis cache: parse url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis cache: ping: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// HealthCheck pings Redis to verify the connection.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func redisKey(key Key) string {
	return redisKeyPrefix + slug(key.League) + ":" + key.Season + ":" + string(key.Category)
}

func (r *Redis) Get(ctx context.Context, key Key) (Entry, error) {
	raw, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("redis cache: get %s: %w", key, err)
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Entry{}, fmt.Errorf("redis cache: decode %s: %w", key, err)
	}
	return Entry{Data: env.Data, StoredAt: env.StoredAt}, nil
}

func (r *Redis) Put(ctx context.Context, key Key, data []byte) error {
	raw, err := json.Marshal(redisEnvelope{StoredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("redis cache: encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, redisKey(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis cache: delete %s: %w", key, err)
	}
	return nil
}
