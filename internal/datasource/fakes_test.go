package datasource

import (
	"context"
	"errors"
	"sync"

	"github.com/seenimoa/marketbrief/pkg/models"
)

var errFake = errors.New("fake failure")

// fakeQuotes is an in-memory QuoteProvider.
type fakeQuotes struct {
	mu       sync.Mutex
	history  map[string][]float64
	volumes  map[string]int64
	info     map[string]map[string]any
	news     map[string][]RawNews
	failHist map[string]bool
	failInfo map[string]bool
	failNews map[string]bool
	calls    []string
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{
		history:  map[string][]float64{},
		volumes:  map[string]int64{},
		info:     map[string]map[string]any{},
		news:     map[string][]RawNews{},
		failHist: map[string]bool{},
		failInfo: map[string]bool{},
		failNews: map[string]bool{},
	}
}

func (f *fakeQuotes) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeQuotes) History(_ context.Context, symbol, _ string) ([]models.OHLCV, error) {
	f.record("history:" + symbol)
	if f.failHist[symbol] {
		return nil, errFake
	}
	closes := f.history[symbol]
	bars := make([]models.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = models.OHLCV{Close: c, Volume: f.volumes[symbol]}
	}
	return bars, nil
}

func (f *fakeQuotes) Info(_ context.Context, symbol string) (map[string]any, error) {
	f.record("info:" + symbol)
	if f.failInfo[symbol] {
		return nil, errFake
	}
	if info, ok := f.info[symbol]; ok {
		return info, nil
	}
	return map[string]any{}, nil
}

func (f *fakeQuotes) News(_ context.Context, symbol string, _ int) ([]RawNews, error) {
	f.record("news:" + symbol)
	if f.failNews[symbol] {
		return nil, errFake
	}
	return f.news[symbol], nil
}

// fakeFeeds serves canned entries by URL.
type fakeFeeds struct {
	entries map[string][]FeedEntry
	fail    map[string]bool
	fetched []string
}

func newFakeFeeds() *fakeFeeds {
	return &fakeFeeds{
		entries: map[string][]FeedEntry{},
		fail:    map[string]bool{},
	}
}

func (f *fakeFeeds) Fetch(_ context.Context, url string) ([]FeedEntry, error) {
	f.fetched = append(f.fetched, url)
	if f.fail[url] {
		return nil, errFake
	}
	return f.entries[url], nil
}
