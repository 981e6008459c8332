package report

import (
	"fmt"
	"strings"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

const (
	ruleWidth     = 80
	headlineRunes = 70
)

// Terminal renders the brief as colored text. AI-derived sections appear
// only when analysis is non-nil.
func Terminal(snap *models.MarketSnapshot, analysis *models.AnalysisResult) string {
	if snap == nil {
		return ""
	}
	d := buildBriefData(snap, analysis)

	var sb strings.Builder
	line := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)
	section := func(title string) {
		sb.WriteString("\n" + sectionStyle.Render(title) + "\n")
		sb.WriteString(thin + "\n")
	}

	sb.WriteString("\n\n" + line + "\n")
	sb.WriteString(titleStyle.Render("📈 YOUR DAILY MARKET BRIEF") + "\n")
	sb.WriteString(dateStyle.Render(d.Header) + "\n")
	sb.WriteString(line + "\n")

	section("🌍 MARKET OVERVIEW")
	for _, idx := range d.Indices {
		fmt.Fprintf(&sb, "%s %s: %8.2f (%s)\n",
			trendEmoji(idx.Change),
			boldStyle.Render(fmt.Sprintf("%-12s", idx.Label)),
			idx.Price,
			changeStyle(idx.Change).Render(utils.FormatPct(idx.Change)))
	}
	if d.HasAnalysis && analysis.MarketOverview != "" {
		sb.WriteString("\n" + insightStyle.Render("💡 "+analysis.MarketOverview) + "\n")
	}

	if d.HasAnalysis && len(d.Highlights) > 0 {
		section("📰 KEY NEWS HIGHLIGHTS")
		for i, h := range d.Highlights {
			fmt.Fprintf(&sb, "%s %s\n", mutedStyle.Render(fmt.Sprintf("%d.", i+1)), h)
		}
	}

	section("📊 YOUR PORTFOLIO")
	for _, row := range d.Portfolio {
		fmt.Fprintf(&sb, "%s %s | %10s | %s | Vol %6s | Cap %7s | %d news items\n",
			trendEmoji(row.Change),
			boldStyle.Render(fmt.Sprintf("%-6s", row.Label)),
			utils.FormatUSD(row.Price),
			changeStyle(row.Change).Render(fmt.Sprintf("%7s", utils.FormatPct(row.Change))),
			row.Volume,
			row.MarketCap,
			row.NewsCount)
	}
	fmt.Fprintf(&sb, "\n%s %s\n",
		boldStyle.Render("Average Portfolio Change:"),
		changeStyle(d.AverageChange).Render(utils.FormatPct(d.AverageChange)))

	if len(d.StockAnalysis) > 0 {
		section("🔍 STOCK-BY-STOCK ANALYSIS")
		for _, s := range d.StockAnalysis {
			fmt.Fprintf(&sb, "\n%s - %s\n", boldStyle.Render(s.Ticker), styleFor(sentimentStyles, s.Sentiment).Render(s.Sentiment))
			fmt.Fprintf(&sb, "  📰 %s\n", s.KeyNews)
			fmt.Fprintf(&sb, "  💭 %s\n", s.Analysis)
		}
	}

	if d.HasAnalysis && len(d.Alerts) > 0 {
		sb.WriteString("\n" + alertStyle.Render("⚠️  ALERTS") + "\n")
		sb.WriteString(thin + "\n")
		for _, alert := range d.Alerts {
			fmt.Fprintf(&sb, "  • %s\n", alert)
		}
	}

	if len(d.Recommendations) > 0 {
		section("🎯 TODAY'S OPPORTUNITIES (NEWS-DRIVEN)")
		for _, r := range d.Recommendations {
			fmt.Fprintf(&sb, "\n%s %s\n",
				boldStyle.Render(fmt.Sprintf("%d. %s -", r.Index, r.Ticker)),
				styleFor(actionStyles, r.Action).Render(r.Action))
			fmt.Fprintf(&sb, "   Price: $%.2f → Target: $%.2f (%s)\n",
				r.CurrentPrice, r.TargetPrice,
				changeStyle(r.Upside).Render(fmt.Sprintf("%+.1f%%", r.Upside)))
			fmt.Fprintf(&sb, "   Risk: %s | Timeframe: %s\n", r.RiskLevel, r.Timeframe)
			fmt.Fprintf(&sb, "   📰 Catalyst: %s\n", r.Catalyst)
			fmt.Fprintf(&sb, "   💡 %s\n", r.Rationale)
		}
	}

	if len(d.ActionItems) > 0 {
		section("✅ ACTION ITEMS")
		for i, item := range d.ActionItems {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
		}
	}

	section("📱 RECENT NEWS BY STOCK")
	for _, g := range d.NewsByStock {
		fmt.Fprintf(&sb, "\n%s - %s\n", boldStyle.Render(g.Ticker), g.Name)
		for _, n := range g.Items {
			fmt.Fprintf(&sb, "  • %s\n", utils.Truncate(n.Title, headlineRunes))
			sb.WriteString("    " + mutedStyle.Render(n.Publisher+" - "+n.Published) + "\n")
		}
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(mutedStyle.Render("Generated by marketbrief | Not Financial Advice") + "\n")
	sb.WriteString(line + "\n\n")
	return sb.String()
}
