package report

import "github.com/charmbracelet/lipgloss"

// Terminal palette.
var (
	upColor     = lipgloss.Color("#10B981")
	downColor   = lipgloss.Color("#EF4444")
	warnColor   = lipgloss.Color("#F59E0B")
	infoColor   = lipgloss.Color("#3B82F6")
	accentColor = lipgloss.Color("#06B6D4")
	brandColor  = lipgloss.Color("#A855F7")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(brandColor)
	dateStyle    = lipgloss.NewStyle().Foreground(accentColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(infoColor)
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(warnColor)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	upStyle      = lipgloss.NewStyle().Foreground(upColor)
	downStyle    = lipgloss.NewStyle().Foreground(downColor)
	insightStyle = lipgloss.NewStyle().Foreground(warnColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(accentColor)
	plainStyle   = lipgloss.NewStyle()
)

// sentimentStyles and actionStyles color model labels; unknown labels
// render unstyled.
var (
	sentimentStyles = map[string]lipgloss.Style{
		"Bullish": upStyle,
		"Neutral": insightStyle,
		"Bearish": downStyle,
	}
	actionStyles = map[string]lipgloss.Style{
		"Strong Buy":   upStyle,
		"Moderate Buy": mutedStyle,
		"Hold":         insightStyle,
		"Sell":         downStyle,
	}
)

// HTML accent colors, keyed like the terminal styles.
var (
	sentimentHex = map[string]string{
		"Bullish": "#10b981",
		"Neutral": "#f59e0b",
		"Bearish": "#ef4444",
	}
	actionHex = map[string]string{
		"Strong Buy":   "#10b981",
		"Moderate Buy": "#3b82f6",
		"Hold":         "#f59e0b",
		"Sell":         "#ef4444",
	}
)

const defaultHex = "#6b7280"

func changeStyle(pct float64) lipgloss.Style {
	if pct >= 0 {
		return upStyle
	}
	return downStyle
}

func styleFor(styles map[string]lipgloss.Style, key string) lipgloss.Style {
	if s, ok := styles[key]; ok {
		return s
	}
	return plainStyle
}

func hexFor(colors map[string]string, key string) string {
	if c, ok := colors[key]; ok {
		return c
	}
	return defaultHex
}

func trendEmoji(pct float64) string {
	if pct >= 0 {
		return "🟢"
	}
	return "🔴"
}
