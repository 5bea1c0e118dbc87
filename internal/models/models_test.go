package models

import (
	"strings"
	"testing"
	"time"
)

func TestQuoteSnapshotValidate(t *testing.T) {
	valid := QuoteSnapshot{Symbol: "NICKEL", Price: 16000, AsOf: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid quote rejected: %v", err)
	}

	tests := []struct {
		name  string
		quote QuoteSnapshot
	}{
		{"empty symbol", QuoteSnapshot{Price: 1, AsOf: time.Now()}},
		{"zero price", QuoteSnapshot{Symbol: "NICKEL", AsOf: time.Now()}},
		{"negative price", QuoteSnapshot{Symbol: "NICKEL", Price: -1, AsOf: time.Now()}},
		{"zero as-of", QuoteSnapshot{Symbol: "NICKEL", Price: 1}},
	}
	for _, tt := range tests {
		if err := tt.quote.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestBulletinRender(t *testing.T) {
	b := Bulletin{
		MentionPrefix: "@here alert",
		Header:        "header",
		Sections:      []string{"one", "two"},
	}
	out := b.Render()
	if out != "@here alert\nheader\n\none\n\ntwo" {
		t.Errorf("unexpected render:\n%q", out)
	}

	plain := Bulletin{Header: "header", Sections: []string{"one"}}
	if strings.Contains(plain.Render(), "@here") {
		t.Error("render must omit an empty mention prefix")
	}
	if plain.Render() != plain.Render() {
		t.Error("render must be deterministic")
	}
}

func TestSeriesAccessors(t *testing.T) {
	var empty PriceSeries
	if _, ok := empty.Latest(); ok {
		t.Error("empty series must report no latest candle")
	}

	one := PriceSeries{{Close: 10}}
	if latest, ok := one.Latest(); !ok || latest.Close != 10 {
		t.Error("single-candle latest mismatch")
	}
	if _, ok := one.Previous(); ok {
		t.Error("single-candle series must report no previous candle")
	}

	two := PriceSeries{{Close: 10}, {Close: 11}}
	if prev, ok := two.Previous(); !ok || prev.Close != 10 {
		t.Error("previous candle mismatch")
	}
}

func TestEnumStrings(t *testing.T) {
	if TrendBullishAligned.String() != "bullish_aligned" {
		t.Errorf("unexpected label name: %s", TrendBullishAligned)
	}
	if TrendInsufficientData.String() != "insufficient_data" {
		t.Errorf("unexpected label name: %s", TrendInsufficientData)
	}
	if TierStrong.String() != "strong" || TierNone.String() != "none" {
		t.Error("unexpected tier names")
	}
}
