package stringdb

import (
	"context"

	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/cache"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/observability"
)

// CachedFetcher memoizes successful lookups of an underlying Fetcher, keyed by
// the sorted gene set and threshold. Failed lookups are not stored.
type CachedFetcher struct {
	next    Fetcher
	cache   *cache.TTLCache[[]model.Interaction]
	logger  *zap.Logger
	metrics *observability.Collector
}

func NewCachedFetcher(next Fetcher, store *cache.TTLCache[[]model.Interaction], logger *zap.Logger, metrics *observability.Collector) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		next:    next,
		cache:   store,
		logger:  logger.Named("query_cache"),
		metrics: metrics,
	}
}

func (f *CachedFetcher) Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error) {
	result, _, err := f.Lookup(ctx, genes, threshold)
	return result, err
}

// Lookup is Interactions that also reports whether the cache answered.
func (f *CachedFetcher) Lookup(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, bool, error) {
	key := model.Query{Genes: genes, Threshold: threshold}.Key()

	if cached, ok := f.cache.Get(key); ok {
		f.metrics.ObserveCache(true)
		f.logger.Debug("Cache hit", zap.String("key", key))
		return clone(cached), true, nil
	}
	f.metrics.ObserveCache(false)

	result, err := f.next.Interactions(ctx, genes, threshold)
	if err != nil {
		return nil, false, err
	}

	f.cache.Set(key, clone(result))
	return result, false, nil
}

func clone(in []model.Interaction) []model.Interaction {
	out := make([]model.Interaction, len(in))
	copy(out, in)
	return out
}
