// Package models defines the core data structures used throughout marketbrief.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotAvailable is rendered for absent fundamentals.
const NotAvailable = "N/A"

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Metric is an optional numeric fundamental. It encodes as a JSON number
// when valid and as "N/A" otherwise.
type Metric struct {
	Value float64
	Valid bool
}

// NewMetric returns a valid metric.
func NewMetric(v float64) Metric { return Metric{Value: v, Valid: true} }

// String formats the metric, or "N/A".
func (m Metric) String() string {
	if !m.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%g", m.Value)
}

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON implements json.Unmarshaler; any non-number decodes as N/A.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*m = Metric{}
		return nil
	}
	*m = NewMetric(v)
	return nil
}

// IndexLevel is the latest level of a market index.
type IndexLevel struct {
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// StockRecord is the per-ticker snapshot of price, fundamentals and news.
type StockRecord struct {
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	ChangePercent float64    `json:"change_percent"`
	Volume        int64      `json:"volume"`
	MarketCap     Metric     `json:"market_cap"`
	PERatio       Metric     `json:"pe_ratio"`
	Sector        string     `json:"sector"`
	Industry      string     `json:"industry"`
	News          []NewsItem `json:"news"`
	NewsCount     int        `json:"news_count"`
}
