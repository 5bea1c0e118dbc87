package market

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wkchen/steelwatch/internal/models"
)

// InsiderSource scrapes the Markets Insider commodity quote page. The page
// serves the headline price in span.price-section__current-value; older
// renderings use span.push-data, kept as a fallback because the markup
// drifts.
type InsiderSource struct {
	pageURL    string
	httpClient *http.Client
	maxRetries int
}

// NewInsiderSource creates a Markets Insider page scraper.
func NewInsiderSource(pageURL string, timeout time.Duration, maxRetries int) *InsiderSource {
	return &InsiderSource{
		pageURL:    pageURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// FetchQuote retrieves and parses the current commodity quote.
func (s *InsiderSource) FetchQuote(ctx context.Context) (*models.QuoteSnapshot, error) {
	resp, err := doRequest(ctx, s.httpClient, s.pageURL, map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
	}, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote page: %w", err)
	}

	priceText := strings.TrimSpace(doc.Find("span.price-section__current-value").First().Text())
	if priceText == "" {
		priceText = strings.TrimSpace(doc.Find("span.push-data").First().Text())
	}
	if priceText == "" {
		return nil, fmt.Errorf("price element not found: %w", ErrNoData)
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(priceText, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", priceText, err)
	}

	// Percent-change is best-effort: a missing or unreadable element must
	// not fail the quote.
	var changePct float64
	if pctText := strings.TrimSpace(doc.Find("span.price-section__relative-value").First().Text()); pctText != "" {
		pctText = strings.Trim(pctText, "()%+ ")
		if v, err := strconv.ParseFloat(pctText, 64); err == nil {
			changePct = v
		}
	}

	return &models.QuoteSnapshot{
		Symbol:        "NICKEL",
		DisplayName:   "LME Nickel",
		Price:         price,
		PercentChange: changePct,
		AsOf:          time.Now(),
		SourceURL:     s.pageURL,
	}, nil
}

// FetchSeries is unsupported; the quote page carries no usable history.
func (s *InsiderSource) FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	return nil, fmt.Errorf("insider source has no price history: %w", ErrNoData)
}
