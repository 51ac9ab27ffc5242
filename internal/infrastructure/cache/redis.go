package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"captioncraft/internal/config"
	"captioncraft/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrStorageCorrupt = errors.New("stored value is corrupt")
	ErrUpdateConflict = errors.New("concurrent update retries exhausted")
)

const maxUpdateAttempts = 10

type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return NewRedisFromClient(client, log), nil
}

func NewRedisFromClient(client *redis.Client, log *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger.OrNop(log)}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// GetJSON reports false when the key is absent. Undecodable data yields ErrStorageCorrupt.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("%w: key=%s: %v", ErrStorageCorrupt, key, err)
	}
	return true, nil
}

// SetJSON stores value without expiry when ttl <= 0.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateJSON runs fn over the raw stored bytes (nil when absent) and writes back its result
// under WATCH, retrying when another writer touched the key in between.
func (r *Redis) UpdateJSON(ctx context.Context, key string, fn func(raw []byte) (any, error)) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(raw)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		r.logger.Debug("redis watch conflict, retrying", zap.String("key", key), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("%w: key=%s", ErrUpdateConflict, key)
}
