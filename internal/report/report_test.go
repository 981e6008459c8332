package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketbrief/pkg/models"
)

var testTime = time.Date(2026, 3, 4, 6, 30, 0, 0, time.Local)

func testSnapshot() *models.MarketSnapshot {
	snap := models.NewMarketSnapshot("run-1", testTime)
	snap.AddIndex("S&P 500", models.IndexLevel{Price: 5100.25, ChangePercent: 0.42})
	snap.AddIndex("VIX", models.IndexLevel{Price: 14.1, ChangePercent: -3.1})
	snap.AddStock("AAPL", models.StockRecord{
		Name: "Apple Inc.", Price: 153, ChangePercent: 2.0, NewsCount: 1,
		Volume: 52_300_000, MarketCap: models.NewMetric(2.85e12),
		News: []models.NewsItem{{
			Title: "Apple unveils new product", Publisher: "Reuters",
			Link: "https://example.com/apple", Published: "2026-03-04 05:00",
		}},
	})
	snap.AddStock("TSLA", models.StockRecord{Name: "Tesla, Inc.", Price: 240, ChangePercent: -4.0})
	return snap
}

func testAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		MarketOverview: "Stocks rose on easing yields.",
		NewsHighlights: []string{"Fed holds", "Apple launch"},
		PortfolioHealth: models.PortfolioHealth{
			Summary: "Mixed",
			Alerts:  []string{"TSLA slid 4%"},
		},
		StockAnalysis: []models.StockAnalysis{
			{Ticker: "AAPL", Sentiment: "Bullish", Analysis: "Launch momentum."},
		},
		Recommendations: []models.Recommendation{
			{Ticker: "AAPL", Action: "Moderate Buy", CurrentPrice: 150, TargetPrice: 165, RiskLevel: "Low", Timeframe: "3-6 months", Rationale: "Product cycle."},
			{Ticker: "TSLA", Action: "Sell", CurrentPrice: 240, TargetPrice: 216, RiskLevel: "High", Timeframe: "1-3 months", NewsCatalyst: "Recall"},
			{Ticker: "MSFT", Action: "Hold", CurrentPrice: 0, TargetPrice: 400, RiskLevel: "Medium", Timeframe: "6-12 months"},
		},
		ActionItems: []string{"Trim TSLA"},
	}
}

var aiSections = []string{
	"KEY NEWS HIGHLIGHTS",
	"STOCK-BY-STOCK ANALYSIS",
	"ALERTS",
	"TODAY'S OPPORTUNITIES",
	"ACTION ITEMS",
	"💡",
}

func TestAverageChange(t *testing.T) {
	assert.Equal(t, 0.0, AverageChange(nil))
	assert.Equal(t, 0.0, AverageChange(map[string]models.StockRecord{}))
	assert.InDelta(t, -1.0, AverageChange(testSnapshot().Portfolio), 1e-9)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "market_brief_20260304_063000.html", FileName(testTime))
}

func TestTerminalWithoutAnalysis(t *testing.T) {
	out := Terminal(testSnapshot(), nil)

	assert.Contains(t, out, "YOUR DAILY MARKET BRIEF")
	assert.Contains(t, out, "Wednesday, March 04, 2026 - 06:30 AM")
	assert.Contains(t, out, "S&P 500")
	assert.Contains(t, out, "5100.25")
	assert.Contains(t, out, "+0.42%")
	assert.Contains(t, out, "-3.10%")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "1 news items")
	assert.Contains(t, out, "Vol  52.3M")
	assert.Contains(t, out, "Cap  $2.85T")
	assert.Contains(t, out, "Vol    N/A")
	assert.Contains(t, out, "-1.00%")
	assert.Contains(t, out, "Apple unveils new product")
	assert.Contains(t, out, "Reuters - 2026-03-04 05:00")
	for _, s := range aiSections {
		assert.NotContains(t, out, s)
	}
}

func TestTerminalWithAnalysis(t *testing.T) {
	out := Terminal(testSnapshot(), testAnalysis())

	for _, s := range aiSections {
		assert.Contains(t, out, s)
	}
	assert.Contains(t, out, "Stocks rose on easing yields.")
	assert.Contains(t, out, "No major news", "missing key news falls back")
	assert.Contains(t, out, "Price: $150.00 → Target: $165.00")
	assert.Contains(t, out, "+10.0%")
	assert.Contains(t, out, "-10.0%")
	assert.Contains(t, out, "+0.0%", "zero current price yields zero upside")
	assert.Contains(t, out, "Catalyst: N/A")
	assert.Contains(t, out, "Catalyst: Recall")
}

func TestTerminalEmptyPortfolio(t *testing.T) {
	snap := models.NewMarketSnapshot("run-2", testTime)
	out := Terminal(snap, nil)
	assert.Contains(t, out, "+0.00%")
	assert.Empty(t, Terminal(nil, nil))
}

func TestTerminalTruncatesHeadlines(t *testing.T) {
	snap := testSnapshot()
	rec := snap.Portfolio["AAPL"]
	rec.News = []models.NewsItem{{Title: strings.Repeat("x", 100), Publisher: "P", Published: "Recent"}}
	snap.Portfolio["AAPL"] = rec

	out := Terminal(snap, nil)
	assert.Contains(t, out, strings.Repeat("x", 70)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 71))
}

func TestHTMLWithoutAnalysis(t *testing.T) {
	html, err := HTML(testSnapshot(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<meta charset="UTF-8">`)
	assert.Contains(t, html, "Wednesday, March 04, 2026")
	assert.Contains(t, html, "S&amp;P 500")
	assert.Contains(t, html, "<strong>AAPL</strong>")
	assert.Contains(t, html, "$153.00")
	assert.Contains(t, html, "$5,100.25")
	assert.Contains(t, html, "<td>52.3M</td>")
	assert.Contains(t, html, "<td>$2.85T</td>")
	assert.Contains(t, html, "<td>N/A</td>")
	assert.Contains(t, html, FallbackOverview)
	assert.Contains(t, html, FallbackAlert)
	assert.Contains(t, html, `href="https://example.com/apple"`)
	assert.Contains(t, html, "<svg")
	assert.NotContains(t, html, "Stock-by-Stock Analysis")
	assert.NotContains(t, html, "Today&#39;s Opportunities")
	assert.NotContains(t, html, "Today's Opportunities")
	assert.NotContains(t, html, "Key News Highlights")
	assert.NotContains(t, html, "Action Items")
}

func TestHTMLWithAnalysis(t *testing.T) {
	html, err := HTML(testSnapshot(), testAnalysis())
	require.NoError(t, err)

	assert.Contains(t, html, "Stocks rose on easing yields.")
	assert.NotContains(t, html, FallbackOverview)
	assert.NotContains(t, html, FallbackAlert)
	assert.Contains(t, html, "TSLA slid 4%")
	assert.Contains(t, html, "Stock-by-Stock Analysis")
	assert.Contains(t, html, "1. AAPL - Moderate Buy")
	assert.Contains(t, html, "(&#43;10.0%)", "html/template escapes the sign in text context")
	assert.Contains(t, html, "Trim TSLA")
	assert.Contains(t, html, "#10b981")
}

func TestHTMLEscapesContent(t *testing.T) {
	snap := testSnapshot()
	rec := snap.Portfolio["AAPL"]
	rec.News = []models.NewsItem{{Title: "<script>alert(1)</script>", Link: "javascript:alert(1)"}}
	snap.Portfolio["AAPL"] = rec

	html, err := HTML(snap, nil)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "javascript:alert")
}

func TestHTMLNilSnapshot(t *testing.T) {
	_, err := HTML(nil, nil)
	assert.Error(t, err)
}

func TestWriteHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := WriteHTML(dir, testSnapshot(), nil, testTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "market_brief_20260304_063000.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Your Daily Market Brief")
}

func TestHorizontalBarChart(t *testing.T) {
	empty := HorizontalBarChart(nil, ChartConfig{})
	assert.Contains(t, empty, "No data")

	svg := HorizontalBarChart([]BarItem{{Label: "AAPL", Value: 2}, {Label: "T&T", Value: -4}}, DefaultChartConfig())
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "+2.00%")
	assert.Contains(t, svg, "-4.00%")
	assert.Contains(t, svg, "T&amp;T")
	assert.Contains(t, svg, "#ef4444")
}
