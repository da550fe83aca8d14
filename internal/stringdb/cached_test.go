package stringdb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/genepath/internal/cache"
	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/observability"
)

func TestCachedFetcher_IdenticalQueryHitsCache(t *testing.T) {
	next := &countingFetcher{result: []model.Interaction{{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9}}}
	metrics := observability.NewCollector("test")
	f := NewCachedFetcher(next, cache.New[[]model.Interaction](time.Hour, 0), nil, metrics)

	first, hit, err := f.Lookup(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := f.Lookup(context.Background(), []string{"KRAS", "EGFR"}, 0.7)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheMisses))
}

func TestCachedFetcher_DefaultConfigKeepsEveryQuery(t *testing.T) {
	cfg := config.Default().Cache
	next := &countingFetcher{result: []model.Interaction{{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9}}}
	f := NewCachedFetcher(next, cache.New[[]model.Interaction](cfg.TTL(), cfg.MaxEntries), nil, nil)

	const distinct = 300
	for i := 0; i < distinct; i++ {
		_, hit, err := f.Lookup(context.Background(), []string{"EGFR", fmt.Sprintf("GENE%d", i)}, 0.7)
		require.NoError(t, err)
		require.False(t, hit)
	}

	_, hit, err := f.Lookup(context.Background(), []string{"EGFR", "GENE0"}, 0.7)
	require.NoError(t, err)
	assert.True(t, hit, "first query must still be cached")
	assert.Equal(t, distinct, next.calls)
}

func TestCachedFetcher_DifferentThresholdMisses(t *testing.T) {
	next := &countingFetcher{result: []model.Interaction{}}
	f := NewCachedFetcher(next, cache.New[[]model.Interaction](time.Hour, 0), nil, nil)

	_, _ = f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	_, _ = f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.75)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	next := &countingFetcher{err: &UpstreamError{StatusCode: 500}}
	f := NewCachedFetcher(next, cache.New[[]model.Interaction](time.Hour, 0), nil, nil)

	_, err := f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	var upstream *UpstreamError
	assert.True(t, errors.As(err, &upstream))

	next.err = nil
	next.result = []model.Interaction{{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9}}
	got, err := f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcher_CallerCannotMutateCache(t *testing.T) {
	next := &countingFetcher{result: []model.Interaction{{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9}}}
	f := NewCachedFetcher(next, cache.New[[]model.Interaction](time.Hour, 0), nil, nil)

	got, _ := f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	got[0].Score = 0

	again, _ := f.Interactions(context.Background(), []string{"EGFR", "KRAS"}, 0.7)
	assert.Equal(t, 0.9, again[0].Score)
}

func TestCachedFetcher_WithClient(t *testing.T) {
	fake := newFakeString(t, jsonBody(exampleResponse))
	client, _ := newTestClient(t, fake.server.URL)
	f := NewCachedFetcher(client, cache.New[[]model.Interaction](time.Hour, 0), nil, nil)

	for i := 0; i < 3; i++ {
		got, err := f.Interactions(context.Background(), []string{"EGFR", "KRAS", "BRAF"}, 0.7)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), fake.calls.Load())
}
