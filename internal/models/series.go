package models

import "time"

// Candle is one daily observation of an instrument.
type Candle struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered close-price history, oldest first. It is only
// ever consumed within the run that fetched it.
type PriceSeries []Candle

// Latest returns the most recent candle. ok is false for an empty series.
func (s PriceSeries) Latest() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Previous returns the second most recent candle.
func (s PriceSeries) Previous() (Candle, bool) {
	if len(s) < 2 {
		return Candle{}, false
	}
	return s[len(s)-2], true
}
