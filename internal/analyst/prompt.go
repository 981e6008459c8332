// Package analyst turns a MarketSnapshot into an AnalysisResult by asking a
// language model for a structured, news-driven daily brief.
package analyst

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seenimoa/marketbrief/pkg/models"
)

// Digest sizes.
const (
	marketNewsInPrompt = 5
	stockNewsInPrompt  = 3
)

// SystemPrompt fixes the analyst role and the JSON-only reply format.
const SystemPrompt = "You are a professional financial analyst specializing in news-driven market analysis. " +
	"Always respond with valid JSON only, no markdown formatting. " +
	"Base recommendations heavily on recent news and events."

const promptHeader = `You are an expert financial analyst with deep knowledge of market trends and news analysis. Analyze the following market data and recent news to provide a comprehensive daily brief.

Market Data:
%s

%s
`

const promptInstructions = `CRITICAL INSTRUCTIONS:
1. **Base your analysis heavily on the recent news** - this is the most important data
2. Consider how news sentiment affects each stock
3. Identify catalysts (positive or negative) from the news
4. Look for sector trends and correlations
5. Consider both fundamental data AND news sentiment

Please provide your analysis in the following JSON format (respond ONLY with valid JSON, no markdown):
{
  "market_overview": "3-4 sentence summary of overall market conditions, sentiment, and key news driving the market today",
  "news_highlights": [
    "Key market-moving news item 1",
    "Key market-moving news item 2",
    "Key market-moving news item 3"
  ],
  "portfolio_health": {
    "summary": "Overall assessment of the portfolio based on recent news and price action",
    "alerts": ["Any concerning signals or risks from news or data - list 2-3 items or empty array if none"]
  },
  "stock_analysis": [
    {
      "ticker": "SYMBOL",
      "sentiment": "Bullish|Neutral|Bearish",
      "key_news": "Most important news affecting this stock",
      "analysis": "2-3 sentence analysis based on news and data"
    }
  ],
  "recommendations": [
    {
      "ticker": "STOCK_SYMBOL",
      "action": "Strong Buy|Moderate Buy|Hold|Sell",
      "current_price": 123.45,
      "target_price": 135.00,
      "rationale": "3-4 sentence explanation based heavily on recent news, catalysts, and data. Reference specific news items.",
      "risk_level": "Low|Medium|High",
      "timeframe": "1-3 months|3-6 months|6-12 months",
      "news_catalyst": "The specific news or event driving this recommendation"
    }
  ],
  "action_items": [
    "Specific actionable advice based on news - list 3-5 items"
  ]
}

Provide exactly 3 stock recommendations. Focus on stocks where recent news provides clear catalysts or signals. Be specific and reference actual news events.`

// promptData is the snapshot as the model sees it; market news travels in
// the digest instead.
type promptData struct {
	Timestamp     string                        `json:"timestamp"`
	MarketIndices map[string]models.IndexLevel  `json:"market_indices"`
	Portfolio     map[string]models.StockRecord `json:"portfolio"`
}

// BuildPrompt renders the user prompt for snap.
func BuildPrompt(snap *models.MarketSnapshot) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(promptData{
		Timestamp:     snap.Timestamp,
		MarketIndices: snap.MarketIndices,
		Portfolio:     snap.Portfolio,
	})
	if err != nil {
		return "", fmt.Errorf("analyst: marshal snapshot: %w", err)
	}
	data := strings.TrimRight(buf.String(), "\n")
	return fmt.Sprintf(promptHeader, data, NewsDigest(snap)) + promptInstructions, nil
}

// NewsDigest summarizes market and company news as markdown sections.
func NewsDigest(snap *models.MarketSnapshot) string {
	var sb strings.Builder
	sb.WriteString("## Market News:\n")
	for i, n := range snap.MarketNews {
		if i == marketNewsInPrompt {
			break
		}
		fmt.Fprintf(&sb, "- %s (%s)\n", n.Title, n.Publisher)
	}

	sb.WriteString("\n## Company-Specific News:\n")
	for _, ticker := range snap.Tickers() {
		rec := snap.Portfolio[ticker]
		fmt.Fprintf(&sb, "\n### %s (%s):\n", ticker, rec.Name)
		for i, n := range rec.News {
			if i == stockNewsInPrompt {
				break
			}
			fmt.Fprintf(&sb, "- %s\n", n.Title)
			if n.Summary != "" {
				fmt.Fprintf(&sb, "  Summary: %s\n", n.Summary)
			}
		}
	}
	return sb.String()
}
