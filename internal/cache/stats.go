// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"starbiz/internal/models"
)

const (
	statsKeyPrefix = "stats:"

	// DefaultStatsTTL is how long dashboard counts stay cached.
	DefaultStatsTTL = 60 * time.Second
)

// StatsCache keeps the per-vertical dashboard counts in Valkey. A nil
// client disables caching: every Get misses and writes are dropped.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache backed by the given Valkey client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl == 0 {
		ttl = DefaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached counts of a vertical.
func (sc *StatsCache) Get(ctx context.Context, vertical string) (*models.Stats, bool) {
	if sc == nil || sc.client == nil {
		return nil, false
	}
	val, err := sc.client.Get(ctx, statsKeyPrefix+vertical).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("stats cache get error", "vertical", vertical, "error", err)
		return nil, false
	}
	var st models.Stats
	if err := json.Unmarshal(val, &st); err != nil {
		slog.Warn("stats cache decode error", "vertical", vertical, "error", err)
		return nil, false
	}
	return &st, true
}

// Set stores the counts of a vertical with the configured TTL.
func (sc *StatsCache) Set(ctx context.Context, vertical string, st *models.Stats) {
	if sc == nil || sc.client == nil || st == nil {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := sc.client.Set(ctx, statsKeyPrefix+vertical, data, sc.ttl).Err(); err != nil {
		slog.Warn("stats cache set error", "vertical", vertical, "error", err)
	}
}

// Invalidate drops the cached counts of a vertical after a write.
func (sc *StatsCache) Invalidate(ctx context.Context, vertical string) {
	if sc == nil || sc.client == nil {
		return
	}
	if err := sc.client.Del(ctx, statsKeyPrefix+vertical).Err(); err != nil {
		slog.Warn("stats cache invalidate error", "vertical", vertical, "error", err)
	}
}

// InvalidateAll removes every cached stats entry by scanning for the prefix.
func (sc *StatsCache) InvalidateAll(ctx context.Context) {
	if sc == nil || sc.client == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := sc.client.Scan(ctx, cursor, statsKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("stats cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("stats cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("stats cache cleared", "deleted", deleted)
	}
}
