package client

import (
	"context"
	"errors"
	"fmt"
	"sweepstakes-payments/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

const countryCacheKeyPrefix = "geo:country:"

func InitRedisClient(ctx context.Context, redisCfg *config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// CountryCache remembers IP to country lookups.
type CountryCache interface {
	GetCountry(ctx context.Context, ip string) (string, bool, error)
	SetCountry(ctx context.Context, ip, country string) error
}

type redisCountryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCountryCache(rdb *redis.Client, ttl time.Duration) CountryCache {
	return &redisCountryCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *redisCountryCache) GetCountry(ctx context.Context, ip string) (string, bool, error) {
	country, err := c.rdb.Get(ctx, countryCacheKeyPrefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return country, true, nil
}

func (c *redisCountryCache) SetCountry(ctx context.Context, ip, country string) error {
	return c.rdb.Set(ctx, countryCacheKeyPrefix+ip, country, c.ttl).Err()
}
