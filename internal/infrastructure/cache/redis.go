package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"jobboard/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultTTL = 600 * time.Second

// ErrDisabled is returned by reads that cannot fail open, such as counters.
var ErrDisabled = errors.New("cache disabled")

// Redis is a fail-open JSON cache. When Redis is unreachable every read is a
// miss and every write is dropped.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger logrus.FieldLogger) *Redis {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if !cfg.RedisEnabled() {
		if logger != nil {
			logger.Info("redis not configured, search cache disabled")
		}
		return &Redis{ttl: ttl, logger: logger}
	}

	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(strings.TrimSpace(cfg.Host), port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("redis unavailable, bypassing cache")
		}
		_ = client.Close()
		return &Redis{ttl: ttl, logger: logger}
	}

	return NewRedisWithClient(client, ttl, logger)
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.WithError(err).Warn("redis unavailable, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value for ttl, or for the configured TTL when ttl <= 0.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Counter reads an integer key written by Incr; a missing key is 0.
func (r *Redis) Counter(ctx context.Context, key string) (int64, error) {
	if r.isUnavailable() {
		return 0, ErrDisabled
	}
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.warnUnavailableOnce(err)
		return 0, err
	}
	return n, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	if r.isUnavailable() {
		return 0, nil
	}
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return 0, err
	}
	return n, nil
}

// scanBatch bounds both the SCAN page size and each UNLINK call.
const scanBatch = 100

// DeleteByPattern unlinks every key matching pattern. SCAN is not a snapshot,
// so keys written during the walk may survive; callers treat this as best
// effort.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	batch := make([]string, 0, scanBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.client.Unlink(ctx, batch...).Err(); err != nil && r.logger != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{"keys": len(batch), "pattern": pattern}).Warn("redis unlink failed")
		}
		batch = batch[:0]
	}

	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()

	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}
