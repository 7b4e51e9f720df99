package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the caching interface. All cache operations go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error

	// Locale bundles back the public content read endpoint; they are
	// invalidated whenever any translation row changes.
	SetLocaleBundle(ctx context.Context, locale string, bundle map[string]string, ttl time.Duration) error
	GetLocaleBundle(ctx context.Context, locale string) (map[string]string, bool, error)
	InvalidateLocaleBundles(ctx context.Context) error

	SetJobStatus(ctx context.Context, jobID uuid.UUID, status string, ttl time.Duration) error
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (string, bool, error)
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) SetLocaleBundle(ctx context.Context, locale string, bundle map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, LocaleBundleKey(locale), data, ttl).Err()
}

func (c *RedisCache) GetLocaleBundle(ctx context.Context, locale string) (map[string]string, bool, error) {
	data, err := c.client.Get(ctx, LocaleBundleKey(locale)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var bundle map[string]string
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, false, err
	}
	return bundle, true, nil
}

// InvalidateLocaleBundles drops the cached bundle for every supported
// locale. The locale set is fixed, so no key scan is needed.
func (c *RedisCache) InvalidateLocaleBundles(ctx context.Context) error {
	keys := make([]string, len(models.SupportedLocales))
	for i, l := range models.SupportedLocales {
		keys[i] = LocaleBundleKey(l)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) SetJobStatus(ctx context.Context, jobID uuid.UUID, status string, ttl time.Duration) error {
	return c.client.Set(ctx, JobStatusKey(jobID), status, ttl).Err()
}

func (c *RedisCache) GetJobStatus(ctx context.Context, jobID uuid.UUID) (string, bool, error) {
	val, err := c.client.Get(ctx, JobStatusKey(jobID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
