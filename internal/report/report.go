// Package report renders a MarketSnapshot and its optional AnalysisResult as
// colored terminal text and as a self-contained HTML document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Fallback copy used when the analysis is missing or incomplete.
const (
	FallbackOverview = "Market data collected successfully."
	FallbackAlert    = "No major alerts detected"
	noKeyNews        = "No major news"
)

// newsPerStock caps the "recent news" listing per ticker.
const newsPerStock = 3

// FilePrefix and FileExt frame the HTML report file name.
const (
	FilePrefix = "market_brief_"
	FileExt    = ".html"
)

// ════════════════════════════════════════════════════════════════════
// Brief Data: Flattened for rendering
// ════════════════════════════════════════════════════════════════════

// BriefData is the render model shared by the terminal and HTML renderers.
type BriefData struct {
	Title       string
	Date        string
	Header      string
	GeneratedAt string

	Indices       []ChangeRow
	Portfolio     []ChangeRow
	AverageChange float64
	NewsByStock   []NewsGroup
	Chart         template.HTML

	HasAnalysis     bool
	Overview        string
	Highlights      []string
	Alerts          []string
	StockAnalysis   []SentimentRow
	Recommendations []RecommendationRow
	ActionItems     []string
}

// ChangeRow is one index or portfolio line.
type ChangeRow struct {
	Label     string
	Name      string
	Price     float64
	Change    float64
	Volume    string
	MarketCap string
	NewsCount int
}

// Up reports whether the change is non-negative.
func (r ChangeRow) Up() bool { return r.Change >= 0 }

// NewsGroup lists recent headlines for one ticker.
type NewsGroup struct {
	Ticker string
	Name   string
	Items  []models.NewsItem
}

// SentimentRow is one stock_analysis entry.
type SentimentRow struct {
	Ticker    string
	Sentiment string
	Color     string
	KeyNews   string
	Analysis  string
}

// RecommendationRow is one recommendation with its computed upside.
type RecommendationRow struct {
	Index        int
	Ticker       string
	Action       string
	Color        string
	CurrentPrice float64
	TargetPrice  float64
	Upside       float64
	RiskLevel    string
	Timeframe    string
	Catalyst     string
	Rationale    string
}

// AverageChange returns the mean change_percent of the portfolio, or 0 when
// it is empty.
func AverageChange(portfolio map[string]models.StockRecord) float64 {
	if len(portfolio) == 0 {
		return 0
	}
	var total float64
	for _, rec := range portfolio {
		total += rec.ChangePercent
	}
	return total / float64(len(portfolio))
}

// FileName returns the report file name for a run at t.
func FileName(t time.Time) string {
	return FilePrefix + t.Format(utils.FileStampLayout) + FileExt
}

// ════════════════════════════════════════════════════════════════════
// HTML
// ════════════════════════════════════════════════════════════════════

var briefTemplate = template.Must(template.New("brief").Funcs(template.FuncMap{
	"pct":   utils.FormatPct,
	"price": utils.FormatUSD,
	"trend": trendEmoji,
	"upside": func(v float64) string {
		return fmt.Sprintf("%+.1f%%", v)
	},
}).Parse(HTMLTemplate))

// HTML renders the brief as a self-contained HTML document.
func HTML(snap *models.MarketSnapshot, analysis *models.AnalysisResult) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("report: snapshot is nil")
	}
	data := buildBriefData(snap, analysis)

	var buf bytes.Buffer
	if err := briefTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("report: executing template: %w", err)
	}
	return buf.String(), nil
}

// WriteHTML renders the brief and writes it to dir as
// market_brief_YYYYMMDD_HHMMSS.html, returning the file path.
func WriteHTML(dir string, snap *models.MarketSnapshot, analysis *models.AnalysisResult, now time.Time) (string, error) {
	html, err := HTML(snap, analysis)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

// ════════════════════════════════════════════════════════════════════
// Internal: Build render data
// ════════════════════════════════════════════════════════════════════

func buildBriefData(snap *models.MarketSnapshot, a *models.AnalysisResult) BriefData {
	at := snapshotTime(snap)
	d := BriefData{
		Title:         "Daily Market Brief - " + at.Format("January 02, 2006"),
		Date:          at.Format(utils.DateLayout),
		Header:        at.Format(utils.HeaderLayout),
		GeneratedAt:   at.Format(utils.ClockLayout),
		AverageChange: AverageChange(snap.Portfolio),
		Overview:      FallbackOverview,
		Alerts:        []string{},
	}

	for _, name := range snap.Indices() {
		lvl := snap.MarketIndices[name]
		d.Indices = append(d.Indices, ChangeRow{Label: name, Price: lvl.Price, Change: lvl.ChangePercent})
	}

	var bars []BarItem
	for _, ticker := range snap.Tickers() {
		rec := snap.Portfolio[ticker]
		d.Portfolio = append(d.Portfolio, ChangeRow{
			Label:     ticker,
			Name:      rec.Name,
			Price:     rec.Price,
			Change:    rec.ChangePercent,
			Volume:    volumeLabel(rec.Volume),
			MarketCap: marketCapLabel(rec.MarketCap),
			NewsCount: rec.NewsCount,
		})
		bars = append(bars, BarItem{Label: ticker, Value: rec.ChangePercent})
		if len(rec.News) > 0 {
			items := rec.News
			if len(items) > newsPerStock {
				items = items[:newsPerStock]
			}
			d.NewsByStock = append(d.NewsByStock, NewsGroup{Ticker: ticker, Name: rec.Name, Items: items})
		}
	}
	if len(bars) > 0 {
		cfg := DefaultChartConfig()
		cfg.Title = "Daily Change (%)"
		cfg.Height = 60 + 36*len(bars)
		d.Chart = template.HTML(HorizontalBarChart(bars, cfg))
	}

	if a == nil {
		return d
	}
	d.HasAnalysis = true
	if a.MarketOverview != "" {
		d.Overview = a.MarketOverview
	}
	d.Highlights = a.NewsHighlights
	d.Alerts = a.PortfolioHealth.Alerts
	d.ActionItems = a.ActionItems

	for _, s := range a.StockAnalysis {
		keyNews := s.KeyNews
		if keyNews == "" {
			keyNews = noKeyNews
		}
		d.StockAnalysis = append(d.StockAnalysis, SentimentRow{
			Ticker:    s.Ticker,
			Sentiment: s.Sentiment,
			Color:     hexFor(sentimentHex, s.Sentiment),
			KeyNews:   keyNews,
			Analysis:  s.Analysis,
		})
	}
	for i, r := range a.Recommendations {
		catalyst := r.NewsCatalyst
		if catalyst == "" {
			catalyst = models.NotAvailable
		}
		d.Recommendations = append(d.Recommendations, RecommendationRow{
			Index:        i + 1,
			Ticker:       r.Ticker,
			Action:       r.Action,
			Color:        hexFor(actionHex, r.Action),
			CurrentPrice: r.CurrentPrice,
			TargetPrice:  r.TargetPrice,
			Upside:       r.Upside(),
			RiskLevel:    r.RiskLevel,
			Timeframe:    r.Timeframe,
			Catalyst:     catalyst,
			Rationale:    r.Rationale,
		})
	}
	return d
}

// snapshotTime recovers the collection time from the snapshot stamp.
func snapshotTime(snap *models.MarketSnapshot) time.Time {
	t, err := time.ParseInLocation(models.TimestampLayout, snap.Timestamp, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

func volumeLabel(v int64) string {
	if v <= 0 {
		return models.NotAvailable
	}
	return utils.FormatVolume(v)
}

func marketCapLabel(m models.Metric) string {
	if !m.Valid {
		return models.NotAvailable
	}
	return utils.FormatCompact(m.Value)
}
