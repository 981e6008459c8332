// Package datasource fetches market data and news for the daily brief.
// It defines the quote and feed interfaces and implements them over the
// Yahoo Finance HTTP API and RSS/Atom syndication feeds.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
)

// QuoteProvider is the market-data source for indices and portfolio tickers.
type QuoteProvider interface {
	// History returns daily bars for the symbol over rangeSpec (e.g. "5d").
	History(ctx context.Context, symbol, rangeSpec string) ([]models.OHLCV, error)

	// Info returns the instrument's flattened metadata (longName, marketCap,
	// trailingPE, sector, industry, ...).
	Info(ctx context.Context, symbol string) (map[string]any, error)

	// News returns up to count raw news entries attached to the symbol.
	News(ctx context.Context, symbol string, count int) ([]RawNews, error)
}

// FeedSource fetches and parses a syndication feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string) ([]FeedEntry, error)
}

// RawNews is a news entry as delivered by the quote provider.
type RawNews struct {
	Title               string `json:"title"`
	Publisher           string `json:"publisher"`
	Link                string `json:"link"`
	URL                 string `json:"url"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
	Summary             string `json:"summary"`
	Description         string `json:"description"`
}

// FeedEntry is a single item of a syndication feed.
type FeedEntry struct {
	Title       string
	Link        string
	Published   string
	PublishedAt *time.Time
	Source      string
	Summary     string
}

// --- Sentinel errors ---

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrNoData is returned when a source answers without usable data.
var ErrNoData = errors.New("no data returned")
