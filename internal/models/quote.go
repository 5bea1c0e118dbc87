// Package models defines the core domain entities: quotes, price series,
// trend and composite signals, and the rendered bulletin.
package models

import (
	"errors"
	"time"
)

// QuoteSnapshot is one instantaneous reading of an instrument, produced
// fresh each run by a source adapter. Immutable once constructed; there is
// no identity carried across runs.
type QuoteSnapshot struct {
	Symbol        string    `json:"symbol"`
	DisplayName   string    `json:"display_name"`
	Price         float64   `json:"price"`
	PercentChange float64   `json:"percent_change"`
	AsOf          time.Time `json:"as_of"`
	Tag           string    `json:"tag,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
}

// Validate checks quote field constraints.
func (q *QuoteSnapshot) Validate() error {
	if q.Symbol == "" {
		return errors.New("quote symbol must not be empty")
	}
	if q.Price <= 0 {
		return errors.New("quote price must be positive")
	}
	if q.AsOf.IsZero() {
		return errors.New("quote as-of date must be set")
	}
	return nil
}

// AssetConfig is one entry of the tracked equity basket.
type AssetConfig struct {
	Symbol string `mapstructure:"symbol" json:"symbol"`
	Name   string `mapstructure:"name" json:"name"`
	Tag    string `mapstructure:"tag" json:"tag,omitempty"`
}
