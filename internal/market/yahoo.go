package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wkchen/steelwatch/internal/models"
)

// YahooSource fetches daily close history from the Yahoo Finance chart
// endpoint. It serves both the per-asset basket lookups and, when selected
// as the commodity variant, the primary quote via a futures ticker.
type YahooSource struct {
	baseURL    string
	ticker     string
	httpClient *http.Client
	maxRetries int
}

// yahooChartResponse mirrors the relevant slice of the chart payload.
// Closes are pointers because the endpoint interleaves nulls on days the
// instrument did not trade.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahooSource creates a Yahoo chart API client. ticker is the symbol
// used for FetchQuote; FetchSeries takes its symbol per call.
func NewYahooSource(baseURL, ticker string, timeout time.Duration, maxRetries int) *YahooSource {
	return &YahooSource{
		baseURL:    baseURL,
		ticker:     ticker,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// rangeForLookback picks a chart range wide enough to cover the requested
// number of trading-day observations, with margin for holidays.
func rangeForLookback(lookback int) string {
	switch {
	case lookback <= 5:
		return "1mo"
	case lookback <= 20:
		return "3mo"
	case lookback <= 60:
		return "6mo"
	case lookback <= 120:
		return "1y"
	default:
		return "2y"
	}
}

// FetchSeries retrieves up to lookback daily closes for symbol, oldest
// first. Null entries are skipped.
func (s *YahooSource) FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		s.baseURL, url.PathEscape(symbol), rangeForLookback(lookback))

	resp, err := doRequest(ctx, s.httpClient, u, map[string]string{"Accept": "application/json"}, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart for %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := make(models.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := models.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		series = append(series, candle)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no closes for %s: %w", symbol, ErrNoData)
	}

	if len(series) > lookback {
		series = series[len(series)-lookback:]
	}
	return series, nil
}

// FetchQuote derives the commodity quote from the last two closes of the
// configured ticker.
func (s *YahooSource) FetchQuote(ctx context.Context) (*models.QuoteSnapshot, error) {
	series, err := s.FetchSeries(ctx, s.ticker, 2)
	if err != nil {
		return nil, err
	}

	latest, _ := series.Latest()
	var changePct float64
	if prev, ok := series.Previous(); ok && prev.Close != 0 {
		changePct = (latest.Close - prev.Close) / prev.Close * 100
	}

	return &models.QuoteSnapshot{
		Symbol:        s.ticker,
		DisplayName:   "LME Nickel",
		Price:         latest.Close,
		PercentChange: changePct,
		AsOf:          latest.Date,
		SourceURL:     fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, url.PathEscape(s.ticker)),
	}, nil
}
