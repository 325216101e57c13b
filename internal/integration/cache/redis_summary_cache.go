// Package cache implements the portfolio summary cache on Redis with an in-process fallback.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/advisory-portal/backend/internal/application/adapter"
)

const redisKeyPrefix = "portfolio:summary:"

// redisSummaryCache keeps one hash per investor holding the summary for the latest
// reference day only, so invalidating an investor is a single DEL.
type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache creates a summary cache backed by Redis.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) adapter.SummaryCache {
	return &redisSummaryCache{client: client, ttl: ttl}
}

func (c *redisSummaryCache) Get(ctx context.Context, investorID uuid.UUID, asOf time.Time) (*adapter.PortfolioSummary, error) {
	raw, err := c.client.HGet(ctx, redisKey(investorID), dayField(asOf)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary adapter.PortfolioSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, nil
}

// Set replaces whatever day the investor had cached.
func (c *redisSummaryCache) Set(ctx context.Context, summary *adapter.PortfolioSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	key := redisKey(summary.InvestorID)
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, dayField(summary.AsOf), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, investorID uuid.UUID) error {
	if err := c.client.Del(ctx, redisKey(investorID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

func redisKey(investorID uuid.UUID) string {
	return redisKeyPrefix + investorID.String()
}

func dayField(asOf time.Time) string {
	return asOf.UTC().Format("2006-01-02")
}
