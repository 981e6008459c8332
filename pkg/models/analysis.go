package models

// Sentiment labels for stock analysis.
const (
	SentimentBullish = "Bullish"
	SentimentNeutral = "Neutral"
	SentimentBearish = "Bearish"
)

// Recommendation actions.
const (
	ActionStrongBuy   = "Strong Buy"
	ActionModerateBuy = "Moderate Buy"
	ActionHold        = "Hold"
	ActionSell        = "Sell"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// RecommendationCount is the number of recommendations requested from the model.
const RecommendationCount = 3

// AnalysisResult is the model's interpretation of a MarketSnapshot.
// A nil *AnalysisResult means no analysis is available.
type AnalysisResult struct {
	MarketOverview  string           `json:"market_overview"`
	NewsHighlights  []string         `json:"news_highlights"`
	PortfolioHealth PortfolioHealth  `json:"portfolio_health"`
	StockAnalysis   []StockAnalysis  `json:"stock_analysis"   validate:"dive"`
	Recommendations []Recommendation `json:"recommendations"  validate:"len=3,dive"`
	ActionItems     []string         `json:"action_items"`
}

// PortfolioHealth is the model's overall portfolio assessment.
type PortfolioHealth struct {
	Summary string   `json:"summary"`
	Alerts  []string `json:"alerts"`
}

// StockAnalysis is the per-ticker sentiment read.
type StockAnalysis struct {
	Ticker    string `json:"ticker"    validate:"required"`
	Sentiment string `json:"sentiment" validate:"oneof=Bullish Neutral Bearish"`
	KeyNews   string `json:"key_news"`
	Analysis  string `json:"analysis"`
}

// Recommendation is a single actionable idea.
type Recommendation struct {
	Ticker       string  `json:"ticker"        validate:"required"`
	Action       string  `json:"action"        validate:"oneof='Strong Buy' 'Moderate Buy' Hold Sell"`
	CurrentPrice float64 `json:"current_price" validate:"gte=0"`
	TargetPrice  float64 `json:"target_price"  validate:"gte=0"`
	Rationale    string  `json:"rationale"`
	RiskLevel    string  `json:"risk_level"    validate:"oneof=Low Medium High"`
	Timeframe    string  `json:"timeframe"     validate:"oneof='1-3 months' '3-6 months' '6-12 months'"`
	NewsCatalyst string  `json:"news_catalyst"`
}

// Upside returns the percentage move from current to target price, or 0
// when the current price is unknown.
func (r Recommendation) Upside() float64 {
	if r.CurrentPrice == 0 {
		return 0
	}
	return (r.TargetPrice - r.CurrentPrice) / r.CurrentPrice * 100
}
