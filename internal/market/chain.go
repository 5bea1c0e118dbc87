package market

import (
	"context"
	"fmt"

	"github.com/wkchen/steelwatch/internal/logger"
	"github.com/wkchen/steelwatch/internal/models"
)

// Chain tries each source in configured order and returns the first
// success. All-fail returns the last error; the composer then renders the
// degraded headline.
type Chain struct {
	sources []Source
}

// NewChain builds a fallback chain over the given sources.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// FetchQuote returns the first quote any source produces.
func (c *Chain) FetchQuote(ctx context.Context) (*models.QuoteSnapshot, error) {
	var lastErr error
	for i, src := range c.sources {
		quote, err := src.FetchQuote(ctx)
		if err == nil {
			return quote, nil
		}
		lastErr = err
		logger.Warn("Quote source %d/%d failed: %v", i+1, len(c.sources), err)
	}
	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, fmt.Errorf("all quote sources failed: %w", lastErr)
}

// FetchSeries returns the first history any source produces.
func (c *Chain) FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	var lastErr error
	for i, src := range c.sources {
		series, err := src.FetchSeries(ctx, symbol, lookback)
		if err == nil {
			return series, nil
		}
		lastErr = err
		logger.Warn("Series source %d/%d failed for %s: %v", i+1, len(c.sources), symbol, err)
	}
	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, fmt.Errorf("all series sources failed: %w", lastErr)
}
