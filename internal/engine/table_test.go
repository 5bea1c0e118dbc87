package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wkchen/steelwatch/internal/models"
)

// fakeFetcher serves canned series per symbol; missing symbols fail.
type fakeFetcher struct {
	series map[string]models.PriceSeries
}

func (f *fakeFetcher) FetchSeries(_ context.Context, symbol string, _ int) (models.PriceSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return s, nil
}

func candles(closes []float64, volumes []int64) models.PriceSeries {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make(models.PriceSeries, len(closes))
	for i := range closes {
		series[i] = models.Candle{Date: base.AddDate(0, 0, i), Close: closes[i]}
		if volumes != nil {
			series[i].Volume = volumes[i]
		}
	}
	return series
}

func TestBuildRows_PerAssetIsolation(t *testing.T) {
	basket := []models.AssetConfig{
		{Symbol: "2027.TW", Name: "Ta Chen"},
		{Symbol: "2034.TW", Name: "Yuen Chang"},
		{Symbol: "2030.TW", Name: "Chang Yuan"}, // this one fails
		{Symbol: "2015.TW", Name: "Feng Hsin"},
		{Symbol: "2025.TW", Name: "Chien Shing"},
	}
	fetcher := &fakeFetcher{series: map[string]models.PriceSeries{
		"2027.TW": candles([]float64{40.0, 41.0}, []int64{5000, 6000}),
		"2034.TW": candles([]float64{25.0, 24.5}, nil),
		"2015.TW": candles([]float64{60.0, 60.0}, []int64{1000, 2000}),
		"2025.TW": candles([]float64{12.0}, nil),
	}}

	rows := BuildRows(context.Background(), fetcher, basket, 5)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	failed := 0
	for _, row := range rows {
		if row.Failed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed row, got %d", failed)
	}
	if !rows[2].Failed {
		t.Error("failing asset must keep its basket position")
	}

	// Basket order preserved.
	wantCodes := []string{"2027", "2034", "2030", "2015", "2025"}
	for i, row := range rows {
		if row.Code != wantCodes[i] {
			t.Errorf("row %d: expected code %s, got %s", i, wantCodes[i], row.Code)
		}
	}
}

func TestBuildRows_RowValues(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]models.PriceSeries{
		"2027.TW": candles([]float64{40.0, 41.0}, []int64{5000, 6500}),
		"2025.TW": candles([]float64{12.0}, nil),
	}}
	basket := []models.AssetConfig{
		{Symbol: "2027.TW", Name: "Ta Chen"},
		{Symbol: "2025.TW", Name: "Chien Shing"},
	}

	rows := BuildRows(context.Background(), fetcher, basket, 5)

	if rows[0].Price != 41.0 {
		t.Errorf("expected latest close 41.0, got %f", rows[0].Price)
	}
	if !rows[0].HasChange || rows[0].ChangePct < 2.49 || rows[0].ChangePct > 2.51 {
		t.Errorf("expected change ~2.5%%, got %f", rows[0].ChangePct)
	}
	if rows[0].Lots != 6 {
		t.Errorf("expected volume scaled to 6 lots, got %d", rows[0].Lots)
	}

	// Single observation: neutral change, zero volume.
	if rows[1].HasChange {
		t.Error("single-candle asset must render a neutral change")
	}
	if rows[1].Lots != 0 {
		t.Errorf("absent volume must render as 0 lots, got %d", rows[1].Lots)
	}
}

func TestRenderTable(t *testing.T) {
	rows := []AssetRow{
		{Code: "2027", Name: "Ta Chen", Price: 41.0, ChangePct: 2.5, HasChange: true, Lots: 6},
		{Code: "2025", Name: "Chien Shing", Price: 12.0},
		{Code: "2030", Name: "Chang Yuan", Failed: true},
	}
	out := RenderTable(rows)
	lines := strings.Split(out, "\n")

	if len(lines) != 5 {
		t.Fatalf("expected header + rule + 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Code") {
		t.Errorf("missing header row: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "---") {
		t.Errorf("missing separator rule: %q", lines[1])
	}
	if !strings.Contains(lines[2], "+2.50%") {
		t.Errorf("expected signed two-decimal change, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "0.00%") {
		t.Errorf("expected neutral change indicator, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "read error") {
		t.Errorf("expected read error placeholder, got %q", lines[4])
	}
}

func TestRenderTable_TagColumn(t *testing.T) {
	rows := []AssetRow{
		{Code: "2027", Name: "Ta Chen", Price: 41.0, Tag: "large"},
		{Code: "2025", Name: "Chien Shing", Price: 12.0},
	}
	out := RenderTable(rows)
	if !strings.Contains(out, "Tag") {
		t.Error("tag column header missing when an asset carries a tag")
	}
	if !strings.Contains(out, "large") {
		t.Error("tag value missing from row")
	}

	untagged := RenderTable(rows[1:])
	if strings.Contains(untagged, "Tag") {
		t.Error("tag column must be omitted when no asset carries one")
	}
}
