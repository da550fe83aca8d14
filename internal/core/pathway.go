package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/genepath/internal/core/community"
	"github.com/agenthands/genepath/internal/core/export"
	"github.com/agenthands/genepath/internal/core/genes"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/core/render"
	"github.com/agenthands/genepath/internal/core/summary"
	"github.com/agenthands/genepath/internal/driver"
	"github.com/agenthands/genepath/internal/observability"
	"github.com/agenthands/genepath/internal/stringdb"
)

const DefaultThreshold = 0.7

var ErrExportDisabled = errors.New("graph database export is disabled")

// cacheReporter is implemented by fetchers that can tell whether a result
// came from the cache.
type cacheReporter interface {
	Lookup(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, bool, error)
}

type Pathway struct {
	Fetcher    stringdb.Fetcher
	Renderer   *render.Renderer
	Summarizer *summary.Summarizer
	Detector   community.Detector
	// Driver is the export target; nil disables Export.
	Driver driver.GraphDriver

	// DefaultThreshold applies when a request leaves Threshold unset.
	DefaultThreshold float64

	UUIDGenerator func() string
	Now           func() time.Time

	logger  *zap.Logger
	metrics *observability.Collector
}

func NewPathway(fetcher stringdb.Fetcher, renderer *render.Renderer, summarizer *summary.Summarizer, detector community.Detector, graphDriver driver.GraphDriver, logger *zap.Logger, metrics *observability.Collector) *Pathway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if detector == nil {
		detector = community.NewLabelPropagationDetector()
	}
	return &Pathway{
		Fetcher:          fetcher,
		Renderer:         renderer,
		Summarizer:       summarizer,
		Detector:         detector,
		Driver:           graphDriver,
		DefaultThreshold: DefaultThreshold,
		UUIDGenerator:    func() string { return uuid.New().String() },
		Now:              time.Now,
		logger:           logger.Named("pathway"),
		metrics:          metrics,
	}
}

// Run executes one user action end to end. It never returns an error: every
// failure is recorded as a notice on the report and the pipeline stops or
// continues as the failure class dictates.
func (p *Pathway) Run(ctx context.Context, req Request) *Report {
	start := p.Now()
	id := req.ID
	if id == "" {
		id = p.UUIDGenerator()
	}
	report := &Report{
		ID:        id,
		Threshold: req.thresholdOr(p.DefaultThreshold),
	}
	logger := p.logger.With(zap.String("request_id", report.ID))

	finish := func(stage string) *Report {
		report.Stage = stage
		elapsed := p.Now().Sub(start)
		p.metrics.ObservePipeline(stage, elapsed)
		logger.Info("Pipeline finished",
			zap.String("stage", stage),
			zap.Int("gene_count", len(report.Genes)),
			zap.Int("interactions", len(report.Interactions)),
			zap.Bool("cached", report.Cached),
			zap.Duration("duration", elapsed),
		)
		return report
	}

	// Written so NaN fails too.
	if !(report.Threshold >= 0 && report.Threshold <= 1) {
		report.addNotice(NoticeError, fmt.Sprintf("Confidence threshold must be between 0 and 1, got %g.", report.Threshold))
		return finish(StageInputError)
	}

	geneSet, err := genes.Normalize(req.Genes)
	report.Genes = geneSet
	if err != nil {
		message := "Enter at least two genes."
		if errors.Is(err, genes.ErrNoInput) {
			message = "Please enter gene symbols."
		}
		report.addNotice(NoticeWarning, message)
		return finish(StageInputError)
	}
	report.addNotice(NoticeSuccess, fmt.Sprintf("Processing %d genes", len(geneSet)))

	interactions, cached, err := p.fetch(ctx, geneSet, report.Threshold)
	if err != nil {
		logger.Warn("Interaction lookup failed", zap.Error(err))
		report.addNotice(NoticeError, err.Error())
	}
	if interactions == nil {
		interactions = []model.Interaction{}
	}
	report.Interactions = interactions
	report.Cached = cached
	report.addNotice(NoticeInfo, fmt.Sprintf("Found %d interactions", len(interactions)))

	if len(interactions) == 0 {
		report.addNotice(NoticeInfo, "No interactions found. Try lowering the threshold.")
		return finish(StageEmpty)
	}

	report.Table = export.Table(interactions)
	if report.CSV, err = export.CSV(interactions); err != nil {
		logger.Error("Failed to build CSV export", zap.Error(err))
		report.addNotice(NoticeError, "Could not build CSV export.")
	}

	if report.Modules, err = p.Detector.Detect(geneSet, interactions); err != nil {
		logger.Warn("Module detection failed", zap.Error(err))
	}

	opts := render.Options{
		ShowLabels:    req.showLabels(),
		ColorByModule: req.ColorByModule,
		Seed:          req.Seed,
	}

	// Rendering and summarizing read the same interaction list.
	var g errgroup.Group
	var doc []byte
	var renderErr error
	g.Go(func() error {
		doc, renderErr = p.Renderer.RenderDocument(geneSet, interactions, report.Modules, opts)
		return nil
	})
	g.Go(func() error {
		if req.SkipSummary {
			return nil
		}
		report.Summary = p.Summarizer.Summarize(ctx, interactions)
		return nil
	})
	_ = g.Wait()

	if renderErr != nil {
		logger.Error("Failed to render network", zap.Error(renderErr))
		report.addNotice(NoticeError, fmt.Sprintf("Could not render network: %v", renderErr))
	} else {
		report.Network = string(doc)
	}

	return finish(StageComplete)
}

func (p *Pathway) fetch(ctx context.Context, geneSet []string, threshold float64) ([]model.Interaction, bool, error) {
	if c, ok := p.Fetcher.(cacheReporter); ok {
		return c.Lookup(ctx, geneSet, threshold)
	}
	interactions, err := p.Fetcher.Interactions(ctx, geneSet, threshold)
	return interactions, false, err
}

// Export writes a finished report's genes and interactions to the graph
// database.
func (p *Pathway) Export(ctx context.Context, report *Report) error {
	if p.Driver == nil {
		return ErrExportDisabled
	}
	if report == nil || len(report.Genes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	now := p.Now().UTC()
	_, err := p.Driver.ExecuteQuery(ctx, driver.SaveQueryRunQuery, map[string]interface{}{
		"uuid":       report.ID,
		"genes":      report.Genes,
		"threshold":  report.Threshold,
		"created_at": now,
	})
	if err != nil {
		return fmt.Errorf("failed to save query run: %w", err)
	}

	_, err = p.Driver.ExecuteQuery(ctx, driver.SaveGenesQuery, map[string]interface{}{
		"run_uuid": report.ID,
		"genes":    report.Genes,
	})
	if err != nil {
		return fmt.Errorf("failed to save genes: %w", err)
	}

	if len(report.Interactions) > 0 {
		rows := make([]map[string]interface{}, len(report.Interactions))
		for i, in := range report.Interactions {
			rows[i] = map[string]interface{}{
				"gene_a": in.GeneA,
				"gene_b": in.GeneB,
				"score":  in.Score,
			}
		}
		_, err = p.Driver.ExecuteQuery(ctx, driver.SaveInteractionsQuery, map[string]interface{}{
			"interactions": rows,
			"source":       "STRING",
			"created_at":   now,
		})
		if err != nil {
			return fmt.Errorf("failed to save interactions: %w", err)
		}
	}

	p.logger.Info("Exported network",
		zap.String("request_id", report.ID),
		zap.Int("genes", len(report.Genes)),
		zap.Int("interactions", len(report.Interactions)),
	)
	return nil
}
