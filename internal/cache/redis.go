package cache

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// Dial connects and pings a Redis server. Callers fall back to the in-memory
// store when this fails; a missing Redis never aborts startup.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		return nil, err
	}
	log.Println("Connected to Redis")
	return client, nil
}

// redisCommander is the go-redis subset the store needs, narrowed for tests.
type redisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

// RedisStore is the external key-value Store. Every backend failure degrades
// to a cache miss or no-op so serving survives a Redis outage.
type RedisStore struct {
	client redisCommander
	prefix string
}

func NewRedisStore(client redisCommander, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "agg:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("redis get %s degraded to miss: %v", key, err)
		return nil, false
	}
	return data, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		log.Printf("redis set %s dropped: %v", key, err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		log.Printf("redis del %s dropped: %v", key, err)
	}
}

func (s *RedisStore) Flush(ctx context.Context) {
	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		log.Printf("redis flush scan dropped: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("redis flush dropped: %v", err)
	}
}

func (s *RedisStore) Len(ctx context.Context) int {
	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		return 0
	}
	return len(keys)
}
