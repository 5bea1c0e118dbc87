package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wkchen/steelwatch/internal/models"
)

type stubSource struct {
	quote *models.QuoteSnapshot
	err   error
	calls int
}

func (s *stubSource) FetchQuote(context.Context) (*models.QuoteSnapshot, error) {
	s.calls++
	return s.quote, s.err
}

func (s *stubSource) FetchSeries(context.Context, string, int) (models.PriceSeries, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return models.PriceSeries{{Date: time.Now(), Close: 1}}, nil
}

func TestChainFallsThrough(t *testing.T) {
	broken := &stubSource{err: errors.New("blocked")}
	healthy := &stubSource{quote: &models.QuoteSnapshot{Symbol: "NICKEL", Price: 16000, AsOf: time.Now()}}
	unused := &stubSource{quote: &models.QuoteSnapshot{Symbol: "NICKEL", Price: 1, AsOf: time.Now()}}

	chain := NewChain(broken, healthy, unused)
	quote, err := chain.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if quote.Price != 16000 {
		t.Errorf("expected quote from second source, got %f", quote.Price)
	}
	if unused.calls != 0 {
		t.Error("chain must stop at the first success")
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(&stubSource{err: errors.New("blocked")}, &stubSource{err: ErrNoData})
	if _, err := chain.FetchQuote(context.Background()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected last error wrapped, got %v", err)
	}
}

func TestForVariant(t *testing.T) {
	opts := Options{
		PageURL:      "http://example.test/nickel",
		YahooBaseURL: "http://example.test",
		Ticker:       "NID=F",
		Timeout:      time.Second,
		MaxRetries:   1,
	}
	for _, name := range []string{"insider", "moneydj", "yahoo"} {
		if _, err := ForVariant(name, opts); err != nil {
			t.Errorf("ForVariant(%q) failed: %v", name, err)
		}
	}
	if _, err := ForVariant("bloomberg", opts); err == nil {
		t.Error("expected error for unknown variant")
	}
}
