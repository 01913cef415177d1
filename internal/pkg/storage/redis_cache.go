package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tencric/cricbet/internal/pkg/models"
)

const (
	currentMatchKey  = "cricbet:current_match"
	marketsKeyPrefix = "cricbet:markets:"

	// Market snapshots go stale fast during a live match.
	marketsTTL      = 10 * time.Minute
	currentMatchTTL = 6 * time.Hour
)

// MatchCache caches the selected match and prefetched market catalogs in
// Redis so the betting run does not have to rediscover them.
type MatchCache struct {
	client *redis.Client
}

// NewMatchCache connects to Redis and verifies the connection.
func NewMatchCache(addr, password string, db int) (*MatchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &MatchCache{client: client}, nil
}

// StoreCurrentMatch caches the match selected for this cycle.
func (c *MatchCache) StoreCurrentMatch(ctx context.Context, match models.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}
	return c.client.Set(ctx, currentMatchKey, data, currentMatchTTL).Err()
}

// GetCurrentMatch returns the cached match, or nil when nothing is cached.
func (c *MatchCache) GetCurrentMatch(ctx context.Context) (*models.Match, error) {
	data, err := c.client.Get(ctx, currentMatchKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached match: %w", err)
	}

	var match models.Match
	if err := json.Unmarshal([]byte(data), &match); err != nil {
		return nil, fmt.Errorf("failed to parse cached match: %w", err)
	}
	return &match, nil
}

// StoreMarkets caches the normalized market catalog for an event.
func (c *MatchCache) StoreMarkets(ctx context.Context, eventID string, lines []models.NormalizedMarketLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal markets: %w", err)
	}
	return c.client.Set(ctx, marketsKeyPrefix+eventID, data, marketsTTL).Err()
}

// GetMarkets returns the cached catalog for an event, or nil when absent
// or expired.
func (c *MatchCache) GetMarkets(ctx context.Context, eventID string) ([]models.NormalizedMarketLine, error) {
	data, err := c.client.Get(ctx, marketsKeyPrefix+eventID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached markets: %w", err)
	}

	var lines []models.NormalizedMarketLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, fmt.Errorf("failed to parse cached markets: %w", err)
	}
	return lines, nil
}

// Close closes the Redis connection.
func (c *MatchCache) Close() error {
	return c.client.Close()
}
