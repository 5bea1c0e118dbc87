package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wkchen/steelwatch/internal/models"
)

// Status icon thresholds for the headline, checked strongest first.
const (
	surgeThreshold  = 2.0
	strongThreshold = 1.0
	weakThreshold   = -1.0
)

func statusIcon(changePct float64) string {
	switch {
	case changePct > surgeThreshold:
		return "🔥 Surge"
	case changePct > strongThreshold:
		return "📈 Strengthening"
	case changePct < weakThreshold:
		return "📉 Weakening"
	default:
		return "➖ Flat"
	}
}

// headlinePct renders the headline percent-change in its shortest form, so
// a 2.3 reading shows as "+2.3%" rather than "+2.30%". Table rows keep the
// fixed two-decimal form.
func headlinePct(changePct float64) string {
	s := humanize.Ftoa(changePct)
	if changePct > 0 {
		s = "+" + s
	}
	return s + "%"
}

func trendLine(trend *models.TrendResult) string {
	if trend == nil {
		return ""
	}
	if trend.Label == models.TrendInsufficientData {
		return "> Trend: `insufficient history`"
	}
	return fmt.Sprintf("> Trend: **%s** (MA %.0f / %.0f / %.0f)",
		trend.Label, trend.ShortMA, trend.MediumMA, trend.LongMA)
}

func mentionPrefix(tier models.AlertTier) string {
	switch tier {
	case models.TierStrong:
		return "@here 🔔 **Nickel breakout: price spike with trend alignment, act**"
	case models.TierWatch:
		return "@here ⚠️ **Nickel spike without trend confirmation, caution**"
	default:
		return ""
	}
}

// Compose assembles the bulletin for one run. Every section renders from
// whatever independently succeeded: a missing primary quote degrades the
// headline but never suppresses the trend line or the asset table.
//
// tableUsable reports whether at least one basket row carried data; when it
// is false and the quote and trend are both unusable too, a minimal error
// bulletin is produced instead of the normal layout.
func Compose(quote *models.QuoteSnapshot, trend *models.TrendResult, composite models.CompositeSignal, tableText string, tableUsable bool, sourceURL string) *models.Bulletin {
	trendUsable := trend != nil && trend.Label != models.TrendInsufficientData
	if quote == nil && !trendUsable && !tableUsable {
		return ComposeError(sourceURL)
	}

	b := &models.Bulletin{MentionPrefix: mentionPrefix(composite.Tier)}

	var nickel []string
	if quote != nil {
		titleEmoji := "⚖️"
		if composite.PriceBullish {
			titleEmoji = "🔥"
		}
		b.Header = fmt.Sprintf("%s **Nickel & Stainless Steel Daily** (%s)",
			titleEmoji, quote.AsOf.Format("2006-01-02"))

		nickel = append(nickel,
			"**🔩 LME Nickel**",
			fmt.Sprintf("> Price: `%s` USD", humanize.CommafWithDigits(quote.Price, 0)),
			fmt.Sprintf("> Change: `%s`", headlinePct(quote.PercentChange)),
			fmt.Sprintf("> Status: **%s**", statusIcon(quote.PercentChange)),
		)
	} else {
		b.Header = "⚠️ **Stainless Steel Daily** (nickel quote unavailable)"
		nickel = append(nickel,
			"**🔩 LME Nickel**",
			"> Status: `temporarily unreadable` (source may be blocking)",
		)
	}
	if line := trendLine(trend); line != "" {
		nickel = append(nickel, line)
	}
	if sourceURL != "" {
		nickel = append(nickel, fmt.Sprintf("> [Source](%s)", sourceURL))
	}
	b.Sections = append(b.Sections, strings.Join(nickel, "\n"))

	b.Sections = append(b.Sections,
		fmt.Sprintf("**🏭 Taiwan Stainless Steel Basket**\n```yaml\n%s\n```", tableText))

	return b
}

// ComposeError is the maximally degraded bulletin sent when every section
// failed at once.
func ComposeError(sourceURL string) *models.Bulletin {
	section := "> No market data could be retrieved this run. All sources failed or returned nothing usable."
	if sourceURL != "" {
		section += fmt.Sprintf("\n> Check manually: [Source](%s)", sourceURL)
	}
	return &models.Bulletin{
		Header:   "🛑 **Stainless Steel Daily: data unavailable**",
		Sections: []string{section},
	}
}

// AnyUsable reports whether at least one row in the rendered basket carried
// real data.
func AnyUsable(rows []AssetRow) bool {
	for _, row := range rows {
		if !row.Failed {
			return true
		}
	}
	return false
}
