package engine

import "github.com/wkchen/steelwatch/internal/models"

// Fuse combines the instantaneous percent-change reading with the trend
// label into a composite alert tier. Either input may be nil when upstream
// retrieval failed; absence simply forces the corresponding flag to false.
//
// TierWatch is a price spike without structural confirmation. It is flagged
// as higher risk, not higher confidence, and carries different operator
// wording than TierStrong downstream.
func Fuse(quote *models.QuoteSnapshot, trend *models.TrendResult, priceThreshold float64) models.CompositeSignal {
	sig := models.CompositeSignal{
		PriceBullish: quote != nil && quote.PercentChange > priceThreshold,
		TrendBullish: trend != nil && trend.Label == models.TrendBullishAligned,
	}

	switch {
	case sig.PriceBullish && sig.TrendBullish:
		sig.Tier = models.TierStrong
	case sig.PriceBullish:
		sig.Tier = models.TierWatch
	default:
		sig.Tier = models.TierNone
	}
	return sig
}
