package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
	"github.com/ozzus/championship/internal/league"
	"github.com/redis/go-redis/v9"
)

type TableCache struct {
	redis *redis.Client
}

func NewTableCache(redis *redis.Client) *TableCache {
	return &TableCache{redis: redis}
}

// keyPart length-prefixes the league id so ids and seasons containing ':'
// never map to the same key.
func keyPart(key models.LeagueKey) string {
	return fmt.Sprintf("%d:%s:%s", len(key.LeagueID), key.LeagueID, key.Season)
}

func generationKey(key models.LeagueKey) string {
	return "generation:" + keyPart(key)
}

func standingsKey(key models.LeagueKey, gen int64) string {
	return fmt.Sprintf("standings:%d:%s", gen, keyPart(key))
}

func formKey(key models.LeagueKey, gen int64) string {
	return fmt.Sprintf("form:%d:%s", gen, keyPart(key))
}

// Generation returns the current table generation of key; a key never
// invalidated is at generation 0.
func (c *TableCache) Generation(ctx context.Context, key models.LeagueKey) (int64, error) {
	gen, err := c.redis.Get(ctx, generationKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (c *TableCache) GetStandings(ctx context.Context, key models.LeagueKey, gen int64) ([]league.StandingsRow, error) {
	var rows []league.StandingsRow
	if err := c.get(ctx, standingsKey(key, gen), &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []league.StandingsRow{}
	}
	return rows, nil
}

func (c *TableCache) SetStandings(ctx context.Context, key models.LeagueKey, gen int64, rows []league.StandingsRow, ttl time.Duration) error {
	return c.set(ctx, standingsKey(key, gen), rows, ttl)
}

func (c *TableCache) GetForm(ctx context.Context, key models.LeagueKey, gen int64) (map[string][]league.Result, error) {
	var forms map[string][]league.Result
	if err := c.get(ctx, formKey(key, gen), &forms); err != nil {
		return nil, err
	}
	if forms == nil {
		forms = map[string][]league.Result{}
	}
	return forms, nil
}

func (c *TableCache) SetForm(ctx context.Context, key models.LeagueKey, gen int64, forms map[string][]league.Result, ttl time.Duration) error {
	return c.set(ctx, formKey(key, gen), forms, ttl)
}

// Invalidate bumps the generation of key and drops the tables of the
// previous one. Tables written late under an older generation are never
// read again and expire with their TTL.
func (c *TableCache) Invalidate(ctx context.Context, key models.LeagueKey) error {
	gen, err := c.redis.Incr(ctx, generationKey(key)).Result()
	if err != nil {
		return fmt.Errorf("redis incr generation: %w", err)
	}

	if err := c.redis.Del(ctx, standingsKey(key, gen-1), formKey(key, gen-1)).Err(); err != nil {
		return fmt.Errorf("redis del league tables: %w", err)
	}
	return nil
}

func (c *TableCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return derr.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal cached %s: %w", key, err)
	}
	return nil
}

func (c *TableCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s for cache: %w", key, err)
	}

	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
