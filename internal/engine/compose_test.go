package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/wkchen/steelwatch/internal/models"
)

const testSourceURL = "https://markets.businessinsider.com/commodities/nickel-price"

func testQuote(price, pct float64) *models.QuoteSnapshot {
	return &models.QuoteSnapshot{
		Symbol:        "NICKEL",
		DisplayName:   "LME Nickel",
		Price:         price,
		PercentChange: pct,
		AsOf:          time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		SourceURL:     testSourceURL,
	}
}

func TestCompose_HeadlineRoundTrip(t *testing.T) {
	quote := testQuote(19500.0, 2.3)
	composite := Fuse(quote, nil, 1.0)
	msg := Compose(quote, nil, composite, "table", true, testSourceURL).Render()

	if !strings.Contains(msg, "19,500") {
		t.Errorf("headline missing thousands-separated price:\n%s", msg)
	}
	if !strings.Contains(msg, "2.3%") {
		t.Errorf("headline missing percent change:\n%s", msg)
	}
	if !strings.Contains(msg, "🔥 Surge") {
		t.Errorf("change of 2.3 must carry the surge icon:\n%s", msg)
	}
	if !strings.Contains(msg, "2024-06-03") {
		t.Errorf("headline missing as-of date:\n%s", msg)
	}
}

func TestCompose_StatusIconThresholds(t *testing.T) {
	tests := []struct {
		pct  float64
		icon string
	}{
		{2.5, "🔥 Surge"},
		{2.0, "📈 Strengthening"}, // boundary: not a surge
		{1.5, "📈 Strengthening"},
		{1.0, "➖ Flat"}, // boundary: not strengthening
		{0.0, "➖ Flat"},
		{-1.0, "➖ Flat"}, // boundary: not weakening
		{-1.5, "📉 Weakening"},
	}
	for _, tt := range tests {
		if got := statusIcon(tt.pct); got != tt.icon {
			t.Errorf("statusIcon(%.1f) = %q, want %q", tt.pct, got, tt.icon)
		}
	}
}

func TestCompose_Idempotent(t *testing.T) {
	quote := testQuote(16234.5, -1.2)
	trend := &models.TrendResult{
		Label: models.TrendPullback, ShortMA: 16100, MediumMA: 16400, LongMA: 16000,
		ReferencePrice: 16234.5,
	}
	composite := Fuse(quote, trend, 1.0)

	first := Compose(quote, trend, composite, "table", true, testSourceURL).Render()
	second := Compose(quote, trend, composite, "table", true, testSourceURL).Render()
	if first != second {
		t.Error("compose must be byte-identical for identical inputs")
	}
}

func TestCompose_EscalationWording(t *testing.T) {
	quote := testQuote(19500, 2.5)
	bullish := &models.TrendResult{Label: models.TrendBullishAligned}

	strong := Compose(quote, bullish, Fuse(quote, bullish, 1.0), "t", true, testSourceURL).Render()
	if !strings.HasPrefix(strong, "@here") {
		t.Errorf("strong tier must lead with the mention token:\n%s", strong)
	}
	if !strings.Contains(strong, "trend alignment") {
		t.Errorf("strong tier wording missing:\n%s", strong)
	}

	watch := Compose(quote, nil, Fuse(quote, nil, 1.0), "t", true, testSourceURL).Render()
	if !strings.HasPrefix(watch, "@here") {
		t.Errorf("watch tier must lead with the mention token:\n%s", watch)
	}
	if !strings.Contains(watch, "without trend confirmation") {
		t.Errorf("watch tier wording missing:\n%s", watch)
	}
	if strings.Contains(watch, "trend alignment") {
		t.Error("watch wording must not reuse the strong wording")
	}

	calm := Compose(testQuote(19500, 0.1), nil, Fuse(testQuote(19500, 0.1), nil, 1.0), "t", true, testSourceURL).Render()
	if strings.Contains(calm, "@here") {
		t.Errorf("tier none must not mention:\n%s", calm)
	}
}

func TestCompose_DegradedQuoteKeepsOtherSections(t *testing.T) {
	trend := &models.TrendResult{Label: models.TrendFlat, ShortMA: 1, MediumMA: 1, LongMA: 1}
	msg := Compose(nil, trend, Fuse(nil, trend, 1.0), "2027   Ta Chen   41.00", true, testSourceURL).Render()

	if !strings.Contains(msg, "unavailable") {
		t.Errorf("degraded headline missing:\n%s", msg)
	}
	if !strings.Contains(msg, testSourceURL) {
		t.Errorf("manual fallback link missing:\n%s", msg)
	}
	if !strings.Contains(msg, "Ta Chen") {
		t.Errorf("asset table must render despite missing quote:\n%s", msg)
	}
	if !strings.Contains(msg, "```yaml") {
		t.Errorf("table section must stay fenced:\n%s", msg)
	}
}

func TestCompose_TotalDegradation(t *testing.T) {
	msg := Compose(nil, nil, Fuse(nil, nil, 1.0), "all rows failed", false, testSourceURL).Render()
	if !strings.Contains(msg, "data unavailable") {
		t.Errorf("expected the minimal error bulletin:\n%s", msg)
	}
	if strings.Contains(msg, "```yaml") {
		t.Errorf("error bulletin must not carry the normal layout:\n%s", msg)
	}

	// An insufficient-data trend alone does not rescue the normal layout.
	trend := &models.TrendResult{Label: models.TrendInsufficientData}
	msg = Compose(nil, trend, Fuse(nil, trend, 1.0), "x", false, testSourceURL).Render()
	if !strings.Contains(msg, "data unavailable") {
		t.Errorf("insufficient trend must still degrade to the error bulletin:\n%s", msg)
	}
}

func TestCompose_InsufficientTrendNote(t *testing.T) {
	quote := testQuote(19500, 0.5)
	trend := &models.TrendResult{Label: models.TrendInsufficientData}
	msg := Compose(quote, trend, Fuse(quote, trend, 1.0), "t", true, testSourceURL).Render()
	if !strings.Contains(msg, "insufficient history") {
		t.Errorf("expected insufficient-history note:\n%s", msg)
	}
}
