package models

import (
	"sort"
	"time"
)

// TimestampLayout is the layout of MarketSnapshot.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// MarketSnapshot is the complete picture of market and portfolio state
// captured once per run. It is read-only after collection.
type MarketSnapshot struct {
	RunID         string                 `json:"-"`
	Timestamp     string                 `json:"timestamp"`
	MarketIndices map[string]IndexLevel  `json:"market_indices"`
	Portfolio     map[string]StockRecord `json:"portfolio"`
	MarketNews    []NewsItem             `json:"market_news"`

	// indexOrder and tickerOrder keep configuration order for rendering.
	indexOrder  []string
	tickerOrder []string
}

// NewMarketSnapshot creates an empty snapshot stamped with t.
func NewMarketSnapshot(runID string, t time.Time) *MarketSnapshot {
	return &MarketSnapshot{
		RunID:         runID,
		Timestamp:     t.Format(TimestampLayout),
		MarketIndices: make(map[string]IndexLevel),
		Portfolio:     make(map[string]StockRecord),
		MarketNews:    []NewsItem{},
	}
}

// AddIndex records an index level.
func (s *MarketSnapshot) AddIndex(name string, lvl IndexLevel) {
	if _, ok := s.MarketIndices[name]; !ok {
		s.indexOrder = append(s.indexOrder, name)
	}
	s.MarketIndices[name] = lvl
}

// AddStock records a portfolio entry.
func (s *MarketSnapshot) AddStock(ticker string, rec StockRecord) {
	if _, ok := s.Portfolio[ticker]; !ok {
		s.tickerOrder = append(s.tickerOrder, ticker)
	}
	s.Portfolio[ticker] = rec
}

// Indices returns index names in insertion order. Entries set directly on
// the map follow in sorted order.
func (s *MarketSnapshot) Indices() []string {
	return orderedKeys(s.indexOrder, s.MarketIndices)
}

// Tickers returns portfolio tickers in insertion order.
func (s *MarketSnapshot) Tickers() []string {
	return orderedKeys(s.tickerOrder, s.Portfolio)
}

func orderedKeys[V any](order []string, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range m {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
