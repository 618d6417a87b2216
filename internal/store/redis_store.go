package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	wasHereCountKeyPrefix = "engagement:was_here:"
	hotReelScoresKey      = "engagement:hotreel:scores"
)

// EngagementStore defines Redis operations for was-here count caching and
// hot reel tracking.
type EngagementStore interface {
	GetWasHereCount(ctx context.Context, reelID uint64) (int64, bool, error)
	SetWasHereCount(ctx context.Context, reelID uint64, count int64) error
	InvalidateWasHereCount(ctx context.Context, reelID uint64) error
	RecordAccess(ctx context.Context, reelID uint64) error
	GetTopHotReels(ctx context.Context, n int64) ([]uint64, error)
	ResetHotReelScores(ctx context.Context) error
	Close() error
}

// RedisEngagementStore implements EngagementStore backed by Redis.
type RedisEngagementStore struct {
	client *redis.Client
}

// NewRedisEngagementStore creates a new Redis-backed engagement store.
func NewRedisEngagementStore(address, password string, db int) (*RedisEngagementStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisEngagementStore{client: client}, nil
}

func wasHereCountKey(reelID uint64) string {
	return wasHereCountKeyPrefix + strconv.FormatUint(reelID, 10)
}

// GetWasHereCount returns the cached was-here count for a reel.
// Returns (count, true, nil) on hit, (0, false, nil) on miss.
func (s *RedisEngagementStore) GetWasHereCount(ctx context.Context, reelID uint64) (int64, bool, error) {
	val, err := s.client.Get(ctx, wasHereCountKey(reelID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get was-here count: %w", err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse was-here count: %w", err)
	}
	return count, true, nil
}

// SetWasHereCount writes the was-here count for a reel.
func (s *RedisEngagementStore) SetWasHereCount(ctx context.Context, reelID uint64, count int64) error {
	if err := s.client.Set(ctx, wasHereCountKey(reelID), count, 0).Err(); err != nil {
		return fmt.Errorf("redis set was-here count: %w", err)
	}
	return nil
}

// InvalidateWasHereCount drops the cached count for a reel. Used after a
// toggle: the next read repopulates the key from the database.
func (s *RedisEngagementStore) InvalidateWasHereCount(ctx context.Context, reelID uint64) error {
	if err := s.client.Del(ctx, wasHereCountKey(reelID)).Err(); err != nil {
		return fmt.Errorf("redis invalidate was-here count: %w", err)
	}
	return nil
}

// RecordAccess increments the access score for a reel in the hot reel sorted
// set.
func (s *RedisEngagementStore) RecordAccess(ctx context.Context, reelID uint64) error {
	err := s.client.ZIncrBy(ctx, hotReelScoresKey, 1, strconv.FormatUint(reelID, 10)).Err()
	if err != nil {
		return fmt.Errorf("redis record access: %w", err)
	}
	return nil
}

// GetTopHotReels returns the top-n most accessed reel IDs.
func (s *RedisEngagementStore) GetTopHotReels(ctx context.Context, n int64) ([]uint64, error) {
	members, err := s.client.ZRevRange(ctx, hotReelScoresKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get top hot reels: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResetHotReelScores deletes the hot reel scores sorted set.
func (s *RedisEngagementStore) ResetHotReelScores(ctx context.Context) error {
	if err := s.client.Del(ctx, hotReelScoresKey).Err(); err != nil {
		return fmt.Errorf("redis reset hot reel scores: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisEngagementStore) Close() error {
	return s.client.Close()
}

// Ensure interface is satisfied at compile time.
var _ EngagementStore = (*RedisEngagementStore)(nil)
