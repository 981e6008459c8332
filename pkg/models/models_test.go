package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Metric ──

func TestMetricJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		PE  Metric `json:"pe"`
		Cap Metric `json:"cap"`
	}{PE: NewMetric(28.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pe":28.5,"cap":"N/A"}`, string(data))

	var decoded struct {
		PE  Metric `json:"pe"`
		Cap Metric `json:"cap"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, NewMetric(28.5), decoded.PE)
	assert.False(t, decoded.Cap.Valid)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "N/A", Metric{}.String())
	assert.Equal(t, "31.2", NewMetric(31.2).String())
}

// ── News ──

func TestTruncateSummary(t *testing.T) {
	short := "short summary"
	assert.Equal(t, short, TruncateSummary(short))

	long := strings.Repeat("é", 400)
	got := TruncateSummary(long)
	assert.Equal(t, MaxSummaryRunes, len([]rune(got)))
}

func TestHasTitle(t *testing.T) {
	items := []NewsItem{{Title: "Apple unveils new product"}}
	assert.True(t, HasTitle(items, "Apple unveils new product"))
	assert.False(t, HasTitle(items, "apple unveils new product"))
	assert.False(t, HasTitle(nil, "anything"))
}

// ── Snapshot ──

func TestSnapshotOrder(t *testing.T) {
	s := NewMarketSnapshot("run-1", time.Date(2025, 3, 4, 6, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-04 06:30:00", s.Timestamp)

	s.AddStock("TSLA", StockRecord{Name: "Tesla"})
	s.AddStock("AAPL", StockRecord{Name: "Apple"})
	s.AddStock("TSLA", StockRecord{Name: "Tesla, Inc."})
	s.Portfolio["MSFT"] = StockRecord{Name: "Microsoft"}

	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT"}, s.Tickers())
	assert.Equal(t, "Tesla, Inc.", s.Portfolio["TSLA"].Name)

	s.AddIndex("S&P 500", IndexLevel{Price: 5000})
	s.AddIndex("VIX", IndexLevel{Price: 14})
	assert.Equal(t, []string{"S&P 500", "VIX"}, s.Indices())
}

func TestSnapshotJSONOmitsRunID(t *testing.T) {
	s := NewMarketSnapshot("run-1", time.Now())
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "run-1")
	assert.Contains(t, string(data), `"market_news":[]`)
}

// ── Analysis ──

func TestRecommendationUpside(t *testing.T) {
	r := Recommendation{CurrentPrice: 100, TargetPrice: 110}
	assert.InDelta(t, 10.0, r.Upside(), 1e-9)

	r = Recommendation{CurrentPrice: 0, TargetPrice: 110}
	assert.Equal(t, 0.0, r.Upside())
}

func TestAnalysisResultDecode(t *testing.T) {
	raw := `{
		"market_overview": "Markets rallied.",
		"news_highlights": ["Fed holds rates"],
		"portfolio_health": {"summary": "Healthy", "alerts": []},
		"stock_analysis": [{"ticker": "AAPL", "sentiment": "Bullish", "key_news": "Launch", "analysis": "Strong"}],
		"recommendations": [{"ticker": "AAPL", "action": "Strong Buy", "current_price": 150, "target_price": 165,
			"rationale": "Momentum", "risk_level": "Low", "timeframe": "1-3 months", "news_catalyst": "Launch"}],
		"action_items": ["Watch earnings"]
	}`
	var a AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, "Markets rallied.", a.MarketOverview)
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, ActionStrongBuy, a.Recommendations[0].Action)
	assert.Equal(t, SentimentBullish, a.StockAnalysis[0].Sentiment)
}
