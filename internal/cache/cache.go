package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/limaJavier/sectiontable/internal/config"
	"github.com/limaJavier/sectiontable/pkg/model"
)

const keyPrefix = "sectiontable:timetable:"

var ErrCacheMiss = errors.New("cache miss")

// Cache stores solved timetables. A solve is deterministic for a given input and seed, so both make up the key
type Cache interface {
	Get(ctx context.Context, key string) (model.Timetable, error)
	Set(ctx context.Context, key string, timetable model.Timetable) error
}

// Key hashes the canonical JSON form of the input together with the seed
func Key(input model.ModelInput, seed uint64) (string, error) {
	payload, err := json.Marshal(struct {
		Input model.ModelInput `json:"input"`
		Seed  uint64           `json:"seed"`
	}{input, seed})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (model.Timetable, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var timetable model.Timetable
	if err := json.Unmarshal(raw, &timetable); err != nil {
		// A corrupt entry is dropped and treated as a miss
		c.logger.Warn("discarding unreadable cached timetable", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return nil, ErrCacheMiss
	}

	return timetable, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, timetable model.Timetable) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(timetable)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}
