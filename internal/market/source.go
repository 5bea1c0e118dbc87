// Package market provides the interchangeable price source adapters: HTML
// scrapers for the commodity quote pages and the Yahoo chart API for price
// history. Every adapter is fallible; callers convert failures to absence.
package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wkchen/steelwatch/internal/models"
)

// ErrNoData marks a response that parsed but contained nothing usable
// (layout drift, empty chart, blocked page).
var ErrNoData = errors.New("no usable data in source response")

// Source is one retrieval mechanism for quotes and close-price history.
// Variant implementations are selected by configuration.
type Source interface {
	FetchQuote(ctx context.Context) (*models.QuoteSnapshot, error)
	FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error)
}

// Quote pages block obvious bots; present a plain browser identity.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// doRequest performs a GET with linear-backoff retry. Transport errors and
// 5xx responses are retried; other statuses are returned to the caller.
func doRequest(ctx context.Context, client *http.Client, urlStr string, headers map[string]string, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Options configures a commodity source built by variant name.
type Options struct {
	PageURL      string
	YahooBaseURL string
	Ticker       string
	Timeout      time.Duration
	MaxRetries   int
}

// ForVariant builds the commodity source for a configured variant name.
func ForVariant(name string, opts Options) (Source, error) {
	switch name {
	case "insider":
		return NewInsiderSource(opts.PageURL, opts.Timeout, opts.MaxRetries), nil
	case "moneydj":
		return NewMoneyDJSource(opts.PageURL, opts.Timeout, opts.MaxRetries), nil
	case "yahoo":
		return NewYahooSource(opts.YahooBaseURL, opts.Ticker, opts.Timeout, opts.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unknown source variant: %q", name)
	}
}
