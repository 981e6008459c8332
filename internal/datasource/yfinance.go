package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/seenimoa/marketbrief/internal/infra"
	"github.com/seenimoa/marketbrief/pkg/models"
)

const (
	// DefaultYahooBaseURL is the Yahoo Finance query host.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

	// DefaultYahooRateLimit is the default request rate (requests per second).
	DefaultYahooRateLimit = 5

	infoModules = "price,summaryDetail,assetProfile,defaultKeyStatistics"
)

// YFinance implements QuoteProvider over the Yahoo Finance HTTP API.
type YFinance struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// YFinanceOption configures YFinance.
type YFinanceOption func(*YFinance)

// WithYahooBaseURL overrides the API host (used by tests).
func WithYahooBaseURL(baseURL string) YFinanceOption {
	return func(y *YFinance) { y.baseURL = baseURL }
}

// WithYahooHTTPClient sets a custom HTTP client.
func WithYahooHTTPClient(c *http.Client) YFinanceOption {
	return func(y *YFinance) { y.client = c }
}

// WithYahooRateLimit sets a custom rate limit.
func WithYahooRateLimit(requestsPerSecond int) YFinanceOption {
	return func(y *YFinance) { y.limiter = infra.NewLimiter(requestsPerSecond) }
}

// NewYFinance creates a new Yahoo Finance quote provider.
func NewYFinance(opts ...YFinanceOption) *YFinance {
	y := &YFinance{
		baseURL: DefaultYahooBaseURL,
		client:  infra.HTTPClient,
		limiter: infra.NewLimiter(DefaultYahooRateLimit),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance API types ---

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]any `json:"result"`
		Error  *yfError                    `json:"error"`
	} `json:"quoteSummary"`
}

type yfSearchResponse struct {
	News []RawNews `json:"news"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- Public methods ---

// History returns daily candles from the chart API. Bars without a close
// are dropped.
func (y *YFinance) History(ctx context.Context, symbol, rangeSpec string) ([]models.OHLCV, error) {
	q := url.Values{}
	q.Set("range", rangeSpec)
	q.Set("interval", "1d")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(symbol), q.Encode())

	var resp yfChartResponse
	if err := y.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	return parseYFCandles(resp.Chart.Result[0]), nil
}

// Info returns quoteSummary modules flattened into one map. Numeric fields
// delivered as {"raw": n, "fmt": s} collapse to n.
func (y *YFinance) Info(ctx context.Context, symbol string) (map[string]any, error) {
	q := url.Values{}
	q.Set("modules", infoModules)
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", y.baseURL, url.PathEscape(symbol), q.Encode())

	var resp yfSummaryResponse
	if err := y.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("yfinance info %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance info %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	return flattenSummary(resp.QuoteSummary.Result[0]), nil
}

// News returns the search endpoint's news list for the symbol.
func (y *YFinance) News(ctx context.Context, symbol string, count int) ([]RawNews, error) {
	q := url.Values{}
	q.Set("q", symbol)
	q.Set("quotesCount", "0")
	q.Set("newsCount", strconv.Itoa(count))
	endpoint := fmt.Sprintf("%s/v1/finance/search?%s", y.baseURL, q.Encode())

	var resp yfSearchResponse
	if err := y.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", symbol, err)
	}
	return resp.News, nil
}

// --- Helpers ---

func (y *YFinance) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	body, err := infra.Get(ctx, y.client, endpoint, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// flattenSummary merges modules in infoModules order; the first module
// defining a key wins.
func flattenSummary(modules map[string]map[string]any) map[string]any {
	info := make(map[string]any)
	for _, name := range strings.Split(infoModules, ",") {
		for key, val := range modules[name] {
			if obj, ok := val.(map[string]any); ok {
				raw, hasRaw := obj["raw"]
				if !hasRaw {
					// Empty {} means the field is absent.
					continue
				}
				val = raw
			}
			if _, exists := info[key]; !exists {
				info[key] = val
			}
		}
	}
	return info
}

func parseYFCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.OHLCV{
			Timestamp: time.Unix(ts, 0),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}
