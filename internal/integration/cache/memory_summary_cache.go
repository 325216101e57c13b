// Package cache implements the portfolio summary cache on Redis with an in-process fallback.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/advisory-portal/backend/internal/application/adapter"
)

// memorySummaryCache is used when Redis is not configured or unreachable.
// Entries are local to the process, so multiple API replicas may serve stale summaries until the TTL passes.
type memorySummaryCache struct {
	store *gocache.Cache
}

// NewMemorySummaryCache creates an in-process summary cache.
func NewMemorySummaryCache(ttl time.Duration) adapter.SummaryCache {
	return &memorySummaryCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *memorySummaryCache) Get(_ context.Context, investorID uuid.UUID, asOf time.Time) (*adapter.PortfolioSummary, error) {
	value, found := c.store.Get(memoryKey(investorID, asOf))
	if !found {
		return nil, nil
	}
	summary := *value.(*adapter.PortfolioSummary)
	return &summary, nil
}

func (c *memorySummaryCache) Set(_ context.Context, summary *adapter.PortfolioSummary) error {
	copied := *summary
	c.store.Set(memoryKey(summary.InvestorID, summary.AsOf), &copied, gocache.DefaultExpiration)
	return nil
}

func (c *memorySummaryCache) Invalidate(_ context.Context, investorID uuid.UUID) error {
	prefix := investorID.String() + "|"
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
	return nil
}

func memoryKey(investorID uuid.UUID, asOf time.Time) string {
	return investorID.String() + "|" + dayField(asOf)
}
