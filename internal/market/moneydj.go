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

// MoneyDJSource scrapes the MoneyDJ commodity quote table. Same normalized
// output as InsiderSource, different markup: the figures sit in the first
// data row of table.t01, price in the second cell and percent-change in the
// fourth.
type MoneyDJSource struct {
	pageURL    string
	httpClient *http.Client
	maxRetries int
}

// NewMoneyDJSource creates a MoneyDJ page scraper.
func NewMoneyDJSource(pageURL string, timeout time.Duration, maxRetries int) *MoneyDJSource {
	return &MoneyDJSource{
		pageURL:    pageURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// FetchQuote retrieves and parses the current commodity quote.
func (s *MoneyDJSource) FetchQuote(ctx context.Context) (*models.QuoteSnapshot, error) {
	resp, err := doRequest(ctx, s.httpClient, s.pageURL, nil, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote page: %w", err)
	}

	cells := doc.Find("table.t01 tr").Eq(1).Find("td")
	if cells.Length() < 4 {
		return nil, fmt.Errorf("quote row not found: %w", ErrNoData)
	}

	priceText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(1).Text()), ",", "")
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", priceText, err)
	}

	var changePct float64
	pctText := strings.Trim(strings.TrimSpace(cells.Eq(3).Text()), "()%+ ")
	if v, err := strconv.ParseFloat(pctText, 64); err == nil {
		changePct = v
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

// FetchSeries is unsupported; the quote table carries no usable history.
func (s *MoneyDJSource) FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	return nil, fmt.Errorf("moneydj source has no price history: %w", ErrNoData)
}
