package server

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/cache"
	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core"
	"github.com/agenthands/genepath/internal/core/community"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/core/render"
	"github.com/agenthands/genepath/internal/core/summary"
	"github.com/agenthands/genepath/internal/driver"
	"github.com/agenthands/genepath/internal/llm"
	"github.com/agenthands/genepath/internal/observability"
	"github.com/agenthands/genepath/internal/stringdb"
)

// BuildPathway assembles the pipeline from configuration. A language model
// that cannot be constructed leaves summaries disabled; an unreachable graph
// database leaves export disabled. The returned cleanup closes both.
func BuildPathway(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (*core.Pathway, func()) {
	var closers []func()

	client := stringdb.NewClient(cfg.String, logger, metrics)
	store := cache.New[[]model.Interaction](cfg.Cache.TTL(), cfg.Cache.MaxEntries,
		cache.WithLogger[[]model.Interaction](logger),
		cache.WithEvictionHook[[]model.Interaction](metrics.ObserveCacheEviction),
	)
	metrics.WatchCacheSize(store.Len)
	fetcher := stringdb.NewCachedFetcher(client, store, logger, metrics)

	var llmClient llm.LLMClient
	lc, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Warn("Language model unavailable, summaries disabled",
			zap.String("provider", cfg.LLM.Provider),
			zap.Error(err),
		)
	} else {
		llmClient = lc
		if c, ok := lc.(io.Closer); ok {
			closers = append(closers, func() { _ = c.Close() })
		}
	}
	summarizer := summary.NewSummarizer(llmClient, cfg.Summary, logger, metrics)

	renderer := render.NewRenderer(cfg.Render, os.TempDir(), logger)

	var graph driver.GraphDriver
	if cfg.Memgraph.Enabled {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			logger.Warn("Memgraph unavailable, export disabled", zap.String("uri", cfg.Memgraph.URI), zap.Error(err))
		} else {
			if err := d.EnsureSchema(ctx); err != nil {
				logger.Warn("Failed to ensure graph schema", zap.Error(err))
			}
			graph = d
			closers = append(closers, func() { _ = d.Close(context.Background()) })
		}
	}

	detector, err := community.NewDetector(cfg.Pipeline.ModuleAlgorithm)
	if err != nil {
		logger.Warn("Falling back to label propagation", zap.Error(err))
		detector = community.NewLabelPropagationDetector()
	}

	p := core.NewPathway(fetcher, renderer, summarizer, detector, graph, logger, metrics)
	p.DefaultThreshold = cfg.Pipeline.Threshold()

	return p, func() {
		for _, c := range closers {
			c()
		}
	}
}
