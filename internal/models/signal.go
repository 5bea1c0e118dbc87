package models

// TrendLabel classifies the ordering of the reference price against the
// medium and long moving averages.
type TrendLabel int

const (
	TrendInsufficientData TrendLabel = iota
	TrendFlat
	TrendBullishAligned
	TrendRebound
	TrendBearishAligned
	TrendPullback
)

// String returns a stable name used in logs and storage rows.
func (l TrendLabel) String() string {
	switch l {
	case TrendBullishAligned:
		return "bullish_aligned"
	case TrendRebound:
		return "rebound"
	case TrendBearishAligned:
		return "bearish_aligned"
	case TrendPullback:
		return "pullback"
	case TrendFlat:
		return "flat"
	default:
		return "insufficient_data"
	}
}

// TrendResult is the output of the moving-average classifier. Derived purely
// from one PriceSeries and recomputed every run.
type TrendResult struct {
	Label          TrendLabel `json:"label"`
	ShortMA        float64    `json:"short_ma"`
	MediumMA       float64    `json:"medium_ma"`
	LongMA         float64    `json:"long_ma"`
	ReferencePrice float64    `json:"reference_price"`
}

// AlertTier is the escalation level of a fused signal.
type AlertTier int

const (
	TierNone AlertTier = iota
	TierWatch
	TierStrong
)

func (t AlertTier) String() string {
	switch t {
	case TierStrong:
		return "strong"
	case TierWatch:
		return "watch"
	default:
		return "none"
	}
}

// CompositeSignal fuses the instantaneous price reading with the trend
// classification. Either input may have been unavailable upstream.
type CompositeSignal struct {
	PriceBullish bool      `json:"price_bullish"`
	TrendBullish bool      `json:"trend_bullish"`
	Tier         AlertTier `json:"tier"`
}
