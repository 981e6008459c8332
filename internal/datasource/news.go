package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// DefaultFeedBaseURL is the Google News RSS search endpoint.
const DefaultFeedBaseURL = "https://news.google.com/rss/search"

// MarketQueries are the general market searches behind FetchMarketNews.
var MarketQueries = []string{
	"stock market today",
	"S&P 500 nasdaq",
	"federal reserve interest rates",
}

// marketEntriesPerQuery caps how many entries each market query contributes.
const marketEntriesPerQuery = 4

// newsTier is one step of the per-stock fallback chain.
type newsTier struct {
	name  string
	fetch func(ctx context.Context) ([]models.NewsItem, error)
}

// NewsFetcher collects per-stock and market news with source fallback.
type NewsFetcher struct {
	quotes      QuoteProvider
	feeds       FeedSource
	feedBaseURL string
	logger      arbor.ILogger
	now         func() time.Time
}

// NewNewsFetcher creates a news fetcher. An empty feedBaseURL uses
// DefaultFeedBaseURL.
func NewNewsFetcher(quotes QuoteProvider, feeds FeedSource, feedBaseURL string, logger arbor.ILogger) *NewsFetcher {
	if feedBaseURL == "" {
		feedBaseURL = DefaultFeedBaseURL
	}
	return &NewsFetcher{
		quotes:      quotes,
		feeds:       feeds,
		feedBaseURL: feedBaseURL,
		logger:      logger,
		now:         time.Now,
	}
}

// SearchURL builds the feed search URL for a free-text query.
func (n *NewsFetcher) SearchURL(query string) string {
	return n.feedBaseURL + "?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US:en"
}

// FetchStockNews returns at most maxCount news items for ticker. Tiers are
// tried in order and the first one yielding any item wins. Tier failures are
// logged; the result is empty when every tier comes back empty.
func (n *NewsFetcher) FetchStockNews(ctx context.Context, ticker, companyName string, maxCount int) []models.NewsItem {
	if maxCount <= 0 {
		return []models.NewsItem{}
	}

	for _, tier := range n.stockTiers(ticker, companyName, maxCount) {
		items, err := tier.fetch(ctx)
		if err != nil {
			n.logger.Warn().Err(err).Str("ticker", ticker).Str("tier", tier.name).Msg("News tier failed")
			continue
		}
		if len(items) == 0 {
			n.logger.Debug().Str("ticker", ticker).Str("tier", tier.name).Msg("News tier empty")
			continue
		}
		if len(items) > maxCount {
			items = items[:maxCount]
		}
		n.logger.Info().Str("ticker", ticker).Str("tier", tier.name).Int("count", len(items)).Msg("News collected")
		return items
	}

	n.logger.Info().Str("ticker", ticker).Int("count", 0).Msg("News collected")
	return []models.NewsItem{}
}

func (n *NewsFetcher) stockTiers(ticker, companyName string, maxCount int) []newsTier {
	return []newsTier{
		{
			name: "yahoo-feed",
			fetch: func(ctx context.Context) ([]models.NewsItem, error) {
				raw, err := n.quotes.News(ctx, ticker, maxCount)
				if err != nil {
					return nil, err
				}
				return n.fromRaw(raw, maxCount), nil
			},
		},
		{
			name: "yahoo-info",
			fetch: func(ctx context.Context) ([]models.NewsItem, error) {
				info, err := n.quotes.Info(ctx, ticker)
				if err != nil {
					return nil, err
				}
				raw, err := embeddedNews(info)
				if err != nil {
					return nil, err
				}
				return n.fromRaw(raw, maxCount), nil
			},
		},
		{
			name: "search-feed",
			fetch: func(ctx context.Context) ([]models.NewsItem, error) {
				entries, err := n.feeds.Fetch(ctx, n.SearchURL(companyName+" stock news"))
				if err != nil {
					return nil, err
				}
				if len(entries) > maxCount {
					entries = entries[:maxCount]
				}
				var items []models.NewsItem
				for _, e := range entries {
					item, ok := fromFeed(e)
					if !ok || models.HasTitle(items, item.Title) {
						continue
					}
					items = append(items, item)
					if len(items) >= maxCount {
						break
					}
				}
				return items, nil
			},
		},
	}
}

// FetchMarketNews collects general market headlines across MarketQueries,
// deduplicated by exact title. A failing query is logged and skipped.
func (n *NewsFetcher) FetchMarketNews(ctx context.Context, maxCount int) []models.NewsItem {
	items := []models.NewsItem{}
	if maxCount <= 0 {
		return items
	}

	for _, query := range MarketQueries {
		entries, err := n.feeds.Fetch(ctx, n.SearchURL(query))
		if err != nil {
			n.logger.Warn().Err(err).Str("query", query).Msg("Market news query failed")
			continue
		}
		if len(entries) > marketEntriesPerQuery {
			entries = entries[:marketEntriesPerQuery]
		}
		for _, e := range entries {
			item, ok := fromFeed(e)
			if ok && !models.HasTitle(items, item.Title) {
				items = append(items, item)
			}
			if len(items) >= maxCount {
				break
			}
		}
		if len(items) >= maxCount {
			break
		}
	}

	n.logger.Info().Int("count", len(items)).Msg("Market news collected")
	return items
}

// fromRaw normalizes the first maxCount provider entries, skipping untitled ones.
func (n *NewsFetcher) fromRaw(raw []RawNews, maxCount int) []models.NewsItem {
	if len(raw) > maxCount {
		raw = raw[:maxCount]
	}
	items := make([]models.NewsItem, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		published := n.now()
		if r.ProviderPublishTime > 0 {
			published = time.Unix(r.ProviderPublishTime, 0)
		}

		items = append(items, models.NewsItem{
			Title:     title,
			Publisher: orDefault(r.Publisher, models.DefaultPublisher),
			Link:      orDefault(r.Link, strings.TrimSpace(r.URL)),
			Published: published.Format(utils.NewsLayout),
			Summary:   summarize(orDefault(r.Summary, r.Description)),
		})
	}
	return items
}

// fromFeed normalizes a feed entry; ok is false for an untitled entry.
func fromFeed(e FeedEntry) (models.NewsItem, bool) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return models.NewsItem{}, false
	}
	return models.NewsItem{
		Title:     title,
		Publisher: orDefault(e.Source, models.DefaultFeedPublisher),
		Link:      strings.TrimSpace(e.Link),
		Published: orDefault(e.Published, models.PublishedUnknown),
		Summary:   summarize(cleanHTML(e.Summary)),
	}, true
}

// embeddedNews extracts the news list some metadata payloads carry.
// A payload without one yields no news rather than an error.
func embeddedNews(info map[string]any) ([]RawNews, error) {
	val, err := jsonpath.Get("$.news", info)
	if err != nil {
		return nil, nil
	}
	data, err := json.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("encode embedded news: %w", err)
	}
	var raw []RawNews
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode embedded news: %w", err)
	}
	return raw, nil
}

func summarize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.NoSummary
	}
	return strings.TrimSpace(models.TruncateSummary(s))
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
