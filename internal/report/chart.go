package report

import (
	"fmt"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator: inline, no external assets
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 760)
	Height       int    // SVG height in pixels (default: 240)
	MarginTop    int    // top margin (default: 36)
	MarginRight  int    // right margin (default: 70)
	MarginBottom int    // bottom margin (default: 16)
	MarginLeft   int    // left margin, room for labels (default: 80)
	BgColor      string // background color (default: "#ffffff")
	TextColor    string // label color (default: "#1f2937")
	UpColor      string // bar color for gains (default: "#10b981")
	DownColor    string // bar color for losses (default: "#ef4444")
	FontSize     int    // label font size (default: 12)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        760,
		Height:       240,
		MarginTop:    36,
		MarginRight:  70,
		MarginBottom: 16,
		MarginLeft:   80,
		BgColor:      "#ffffff",
		TextColor:    "#1f2937",
		UpColor:      "#10b981",
		DownColor:    "#ef4444",
		FontSize:     12,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// BarItem is a single bar in a horizontal bar chart.
type BarItem struct {
	Label string
	Value float64
}

// HorizontalBarChart renders signed percentage values as horizontal bars
// around a zero line. Gains extend right, losses left.
func HorizontalBarChart(items []BarItem, cfg ChartConfig) string {
	if cfg.Width == 0 {
		title := cfg.Title
		cfg = DefaultChartConfig()
		cfg.Title = title
	}
	if len(items) == 0 {
		return emptySVG(cfg, "No data")
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal, minVal := 0.0, 0.0
	for _, item := range items {
		maxVal = max(maxVal, item.Value)
		minVal = min(minVal, item.Value)
	}
	valRange := maxVal - minVal
	if valRange < 0.001 {
		valRange = 1
	}
	zeroX := float64(px) + (-minVal/valRange)*float64(pw)

	barH := min(float64(ph)/float64(len(items))*0.7, 24)
	gap := (float64(ph) - barH*float64(len(items))) / float64(len(items)+1)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor)
	if cfg.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="22" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
			cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title))
	}
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#9ca3af" stroke-width="1"/>`,
		zeroX, py, zeroX, py+ph)

	for i, item := range items {
		by := float64(py) + gap + float64(i)*(barH+gap)
		bw := (abs(item.Value) / valRange) * float64(pw)
		bx, color := zeroX, cfg.UpColor
		if item.Value < 0 {
			bx, color = zeroX-bw, cfg.DownColor
		}

		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, bw, barH, color)
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-8, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(item.Label))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%+.2f%%</text>`,
			bx+bw+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, item.Value)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
