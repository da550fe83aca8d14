// Package stringdb fetches protein-protein interactions from the STRING
// database REST API.
package stringdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const networkPath = "/api/json/network"

// Fetcher returns the interactions among genes that meet threshold.
type Fetcher interface {
	Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error)
}

type Client struct {
	baseURL        string
	species        int
	callerIdentity string

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
	metrics    *observability.Collector
}

func NewClient(cfg config.StringConfig, logger *zap.Logger, metrics *observability.Collector) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("stringdb")

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		species:        cfg.Species,
		callerIdentity: cfg.CallerIdentity,
		httpClient:     &http.Client{Timeout: cfg.Timeout()},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:         logger,
		metrics:        metrics,
	}

	failures := cfg.BreakerFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "string-db",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Client errors say nothing about the health of the service.
			var upstream *UpstreamError
			if errors.As(err, &upstream) && upstream.StatusCode != 0 {
				return upstream.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c
}

// Interactions queries the network endpoint for genes and returns the
// interactions that pass FilterInteractions. Fewer than two genes short-circuit
// to an empty result without a request. Every failure is an *UpstreamError.
func (c *Client) Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error) {
	if len(genes) < 2 {
		return []model.Interaction{}, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, genes)
	})
	if err != nil {
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			upstream = &UpstreamError{Err: err}
		}
		return nil, upstream
	}

	records := result.([]networkRecord)
	interactions := FilterInteractions(records, genes, threshold)

	c.logger.Info("Fetched interactions",
		zap.Int("gene_count", len(genes)),
		zap.Int("records", len(records)),
		zap.Int("interactions", len(interactions)),
		zap.Float64("threshold", threshold),
	)
	return interactions, nil
}

func (c *Client) fetch(ctx context.Context, genes []string) ([]networkRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Err: err}
	}

	params := url.Values{}
	params.Set("identifiers", strings.Join(genes, "\r"))
	params.Set("species", strconv.Itoa(c.species))
	params.Set("caller_identity", c.callerIdentity)
	endpoint := c.baseURL + networkPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstream("transport_error", duration)
		c.logger.Error("STRING request failed", zap.Error(err), zap.Duration("duration", duration))
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.ObserveUpstream("status_"+strconv.Itoa(resp.StatusCode), duration)
		c.logger.Error("STRING returned error status",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var records []networkRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		c.metrics.ObserveUpstream("decode_error", duration)
		return nil, &UpstreamError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.metrics.ObserveUpstream("ok", duration)
	return records, nil
}
