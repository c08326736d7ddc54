// Package leaderboardcache keeps assembled leaderboard views in Redis.
package leaderboardcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/redis/go-redis/v9"
)

const (
	KeyPrefix  = "leaderboard:"
	DefaultTTL = 10 * time.Minute
)

// RedisCache implements leaderboardservice.ViewCache.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ leaderboardservice.ViewCache = (*RedisCache)(nil)

// NewRedisCache wraps client. A ttl <= 0 uses DefaultTTL.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Connect opens a client for addr and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func key(view sharedtypes.ViewType) string {
	return KeyPrefix + string(view)
}

func (c *RedisCache) Get(ctx context.Context, view sharedtypes.ViewType) (*leaderboardservice.LeaderboardView, error) {
	data, err := c.client.Get(ctx, key(view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboardcache.Get: %w", err)
	}
	var lv leaderboardservice.LeaderboardView
	if err := json.Unmarshal(data, &lv); err != nil {
		return nil, fmt.Errorf("leaderboardcache.Get: decode %s: %w", view, err)
	}
	return &lv, nil
}

func (c *RedisCache) Set(ctx context.Context, view sharedtypes.ViewType, lv *leaderboardservice.LeaderboardView) error {
	data, err := json.Marshal(lv)
	if err != nil {
		return fmt.Errorf("leaderboardcache.Set: %w", err)
	}
	if err := c.client.Set(ctx, key(view), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("leaderboardcache.Set: %w", err)
	}
	return nil
}

// Invalidate drops every cached view.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("leaderboardcache.Invalidate: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("leaderboardcache.Invalidate: %w", err)
	}
	return nil
}
