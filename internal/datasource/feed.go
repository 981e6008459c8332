package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"

	"github.com/seenimoa/marketbrief/internal/infra"
)

// FeedClient implements FeedSource with gofeed. RSS documents are parsed
// with the RSS parser directly so the per-item <source> publisher survives.
type FeedClient struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewFeedClient creates a feed client. A nil client uses infra.HTTPClient.
func NewFeedClient(client *http.Client) *FeedClient {
	if client == nil {
		client = infra.HTTPClient
	}
	return &FeedClient{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses the feed at url.
func (f *FeedClient) Fetch(ctx context.Context, url string) ([]FeedEntry, error) {
	body, err := infra.Get(ctx, f.client, url, map[string]string{
		"Accept": "application/rss+xml, application/atom+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	if gofeed.DetectFeedType(bytes.NewReader(data)) == gofeed.FeedTypeRSS {
		return parseRSS(data)
	}

	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		e := FeedEntry{
			Title:       item.Title,
			Link:        item.Link,
			Published:   item.Published,
			PublishedAt: item.PublishedParsed,
			Summary:     item.Description,
		}
		if item.Author != nil {
			e.Source = item.Author.Name
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRSS(data []byte) ([]FeedEntry, error) {
	var p rss.Parser
	feed, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse RSS: %w", err)
	}

	entries := make([]FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		e := FeedEntry{
			Title:       item.Title,
			Link:        item.Link,
			Published:   item.PubDate,
			PublishedAt: item.PubDateParsed,
			Summary:     item.Description,
		}
		if item.Source != nil {
			e.Source = item.Source.Title
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// cleanHTML strips HTML tags from a string using goquery and collapses
// whitespace runs (including non-breaking spaces) to single spaces.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
