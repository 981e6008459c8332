package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// HistoryRange is the lookback requested for index and ticker history.
const HistoryRange = "5d"

// Collector assembles a MarketSnapshot from the quote provider and news fetcher.
type Collector struct {
	quotes    QuoteProvider
	news      *NewsFetcher
	indices   []config.IndexConfig
	portfolio []string
	perStock  int
	marketMax int
	logger    arbor.ILogger
	now       func() time.Time
}

// NewCollector creates a collector for the configured indices and portfolio.
func NewCollector(quotes QuoteProvider, news *NewsFetcher, cfg *config.Config, logger arbor.ILogger) *Collector {
	return &Collector{
		quotes:    quotes,
		news:      news,
		indices:   cfg.Indices,
		portfolio: cfg.Portfolio,
		perStock:  cfg.News.PerStock,
		marketMax: cfg.News.Market,
		logger:    logger,
		now:       time.Now,
	}
}

// Collect gathers index levels, market news and per-ticker records. Entries
// that fail are logged and left out; Collect itself does not fail.
func (c *Collector) Collect(ctx context.Context, runID string) *models.MarketSnapshot {
	snap := models.NewMarketSnapshot(runID, c.now())
	c.logger.Info().Str("run_id", runID).Int("indices", len(c.indices)).Int("tickers", len(c.portfolio)).Msg("Collecting market data and news")

	for _, idx := range c.indices {
		lvl, err := c.indexLevel(ctx, idx.Symbol)
		if err != nil {
			c.logger.Warn().Err(err).Str("index", idx.Name).Str("symbol", idx.Symbol).Msg("Index skipped")
			continue
		}
		snap.AddIndex(idx.Name, lvl)
	}

	snap.MarketNews = c.news.FetchMarketNews(ctx, c.marketMax)

	for _, ticker := range c.portfolio {
		rec, err := c.stockRecord(ctx, ticker)
		if err != nil {
			c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Ticker skipped")
			continue
		}
		snap.AddStock(ticker, rec)
	}

	c.logger.Info().Int("stocks", len(snap.Portfolio)).Int("indices", len(snap.MarketIndices)).Msg("Market data collected")
	return snap
}

func (c *Collector) indexLevel(ctx context.Context, symbol string) (models.IndexLevel, error) {
	hist, err := c.quotes.History(ctx, symbol, HistoryRange)
	if err != nil {
		return models.IndexLevel{}, err
	}
	prev, latest, err := lastTwo(hist)
	if err != nil {
		return models.IndexLevel{}, err
	}
	return models.IndexLevel{
		Price:         utils.Round2(latest.Close),
		ChangePercent: utils.PercentChange(prev.Close, latest.Close),
	}, nil
}

func (c *Collector) stockRecord(ctx context.Context, ticker string) (models.StockRecord, error) {
	info, err := c.quotes.Info(ctx, ticker)
	if err != nil {
		return models.StockRecord{}, err
	}
	hist, err := c.quotes.History(ctx, ticker, HistoryRange)
	if err != nil {
		return models.StockRecord{}, err
	}
	prev, latest, err := lastTwo(hist)
	if err != nil {
		return models.StockRecord{}, err
	}

	name := stringField(info, "longName", ticker)
	news := c.news.FetchStockNews(ctx, ticker, name, c.perStock)

	return models.StockRecord{
		Name:          name,
		Price:         utils.Round2(latest.Close),
		ChangePercent: utils.PercentChange(prev.Close, latest.Close),
		Volume:        latest.Volume,
		MarketCap:     metricField(info, "marketCap"),
		PERatio:       peRatio(info),
		Sector:        stringField(info, "sector", models.NotAvailable),
		Industry:      stringField(info, "industry", models.NotAvailable),
		News:          news,
		NewsCount:     len(news),
	}, nil
}

// lastTwo returns the previous and latest bars.
func lastTwo(hist []models.OHLCV) (models.OHLCV, models.OHLCV, error) {
	if len(hist) < 2 {
		return models.OHLCV{}, models.OHLCV{}, fmt.Errorf("%w: %d bars, need 2", ErrNoData, len(hist))
	}
	return hist[len(hist)-2], hist[len(hist)-1], nil
}

func stringField(info map[string]any, key, def string) string {
	if s, ok := info[key].(string); ok && s != "" {
		return s
	}
	return def
}

func metricField(info map[string]any, key string) models.Metric {
	switch v := info[key].(type) {
	case float64:
		return models.NewMetric(v)
	case int64:
		return models.NewMetric(float64(v))
	case int:
		return models.NewMetric(float64(v))
	}
	return models.Metric{}
}

// peRatio is trailingPE rounded to 2 dp; absent or zero is N/A.
func peRatio(info map[string]any) models.Metric {
	m := metricField(info, "trailingPE")
	if !m.Valid || m.Value == 0 {
		return models.Metric{}
	}
	return models.NewMetric(utils.Round2(m.Value))
}
