package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/wkchen/steelwatch/internal/logger"
	"github.com/wkchen/steelwatch/internal/models"
)

// SeriesFetcher is the slice of a source adapter the table builder needs.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error)
}

// AssetRow is one rendered line of the status table.
type AssetRow struct {
	Code      string
	Name      string
	Tag       string
	Price     float64
	ChangePct float64
	HasChange bool
	Lots      int64
	Failed    bool
}

// assetCode strips the exchange suffix for display ("2027.TW" -> "2027").
func assetCode(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}

// BuildRows fetches a short recent history for every basket entry and turns
// it into table rows. Rows are strictly isolated: a failing asset becomes a
// placeholder row and never suppresses the others. Basket order is kept.
func BuildRows(ctx context.Context, fetcher SeriesFetcher, basket []models.AssetConfig, lookback int) []AssetRow {
	rows := make([]AssetRow, 0, len(basket))
	for _, asset := range basket {
		row := AssetRow{
			Code: assetCode(asset.Symbol),
			Name: asset.Name,
			Tag:  asset.Tag,
		}

		series, err := fetcher.FetchSeries(ctx, asset.Symbol, lookback)
		if err != nil || len(series) == 0 {
			if err != nil {
				logger.Warn("Asset %s fetch failed: %v", asset.Symbol, err)
			}
			row.Failed = true
			rows = append(rows, row)
			continue
		}

		latest, _ := series.Latest()
		row.Price = latest.Close
		row.Lots = latest.Volume / 1000
		if prev, ok := series.Previous(); ok && prev.Close != 0 {
			row.ChangePct = (latest.Close - prev.Close) / prev.Close * 100
			row.HasChange = true
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderTable formats rows as a fixed-width block with a header and a dash
// rule. The tag column only appears when some asset carries one.
func RenderTable(rows []AssetRow) string {
	withTag := false
	for _, row := range rows {
		if row.Tag != "" {
			withTag = true
			break
		}
	}

	var sb strings.Builder
	header := fmt.Sprintf("%-6s %-12s %9s %8s %6s", "Code", "Name", "Price", "Change", "Lots")
	if withTag {
		header += "  Tag"
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(header)))

	for _, row := range rows {
		sb.WriteString("\n")
		if row.Failed {
			sb.WriteString(fmt.Sprintf("%-6s %-12s read error", row.Code, row.Name))
			continue
		}

		change := "0.00%"
		if row.HasChange {
			change = fmt.Sprintf("%+.2f%%", row.ChangePct)
		}
		line := fmt.Sprintf("%-6s %-12s %9.2f %8s %6d", row.Code, row.Name, row.Price, change, row.Lots)
		if withTag && row.Tag != "" {
			line += "  " + row.Tag
		}
		sb.WriteString(line)
	}
	return sb.String()
}
