// Package engine implements the signal aggregation core: moving-average
// trend classification, price/trend fusion, the per-asset status table, and
// bulletin composition.
package engine

import "github.com/wkchen/steelwatch/internal/models"

// movingAverage is the arithmetic mean of the trailing window closes ending
// at the latest observation. Callers guarantee len(series) >= window.
func movingAverage(series models.PriceSeries, window int) float64 {
	var sum float64
	for _, c := range series[len(series)-window:] {
		sum += c.Close
	}
	return sum / float64(window)
}

// Classify derives a trend label from the ordering of the latest close
// against the medium and long moving averages. A series shorter than the
// long window yields TrendInsufficientData without computing any average.
//
// The branch order is the whole policy; keep it in this one switch. Ties
// (equality) deliberately fall through to flat.
func Classify(series models.PriceSeries, shortWindow, mediumWindow, longWindow int) models.TrendResult {
	if len(series) < longWindow {
		return models.TrendResult{Label: models.TrendInsufficientData}
	}

	ref := series[len(series)-1].Close
	short := movingAverage(series, shortWindow)
	medium := movingAverage(series, mediumWindow)
	long := movingAverage(series, longWindow)

	var label models.TrendLabel
	switch {
	case ref > medium && medium > long:
		label = models.TrendBullishAligned
	case ref > medium && medium <= long:
		label = models.TrendRebound
	case ref < medium && medium < long:
		label = models.TrendBearishAligned
	case ref < medium && medium >= long:
		label = models.TrendPullback
	default:
		label = models.TrendFlat
	}

	return models.TrendResult{
		Label:          label,
		ShortMA:        short,
		MediumMA:       medium,
		LongMA:         long,
		ReferencePrice: ref,
	}
}
