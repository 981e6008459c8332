package brief

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/pkg/models"
)

type fakeCollector struct {
	snap  *models.MarketSnapshot
	panic bool
	runID string
}

func (f *fakeCollector) Collect(ctx context.Context, runID string) *models.MarketSnapshot {
	f.runID = runID
	if f.panic {
		panic("quote provider exploded")
	}
	return f.snap
}

type fakeAnalyzer struct {
	result *models.AnalysisResult
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, snap *models.MarketSnapshot) *models.AnalysisResult {
	f.calls++
	return f.result
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

var runTime = time.Date(2026, 3, 4, 6, 30, 0, 0, time.Local)

func testSnapshot() *models.MarketSnapshot {
	snap := models.NewMarketSnapshot("run-1", runTime)
	snap.AddIndex("S&P 500", models.IndexLevel{Price: 5100.25, ChangePercent: 0.42})
	snap.AddStock("AAPL", models.StockRecord{
		Name: "Apple Inc.", Price: 153, ChangePercent: 2.0, NewsCount: 1,
		News: []models.NewsItem{{Title: "Apple unveils new product", Publisher: "Reuters", Published: "Recent"}},
	})
	return snap
}

func newTestOrchestrator(c Collector, a Analyzer, dir string, html bool, out *bytes.Buffer) *Orchestrator {
	o := New(c, a, config.ReportConfig{OutputDir: dir, HTMLEnabled: html}, arbor.NewLogger(), out)
	o.now = func() time.Time { return runTime }
	o.newRunID = func() string { return "run-fixed" }
	return o
}

func TestRunWritesTerminalAndHTML(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	collector := &fakeCollector{snap: testSnapshot()}
	analyzer := &fakeAnalyzer{result: &models.AnalysisResult{MarketOverview: "Calm session."}}

	err := newTestOrchestrator(collector, analyzer, dir, true, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-fixed", collector.runID)
	assert.Equal(t, 1, analyzer.calls)
	assert.Contains(t, out.String(), "YOUR DAILY MARKET BRIEF")
	assert.Contains(t, out.String(), "Calm session.")

	data, err := os.ReadFile(filepath.Join(dir, "market_brief_20260304_063000.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Calm session.")
}

func TestRunWithoutAnalysis(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := newTestOrchestrator(&fakeCollector{snap: testSnapshot()}, &fakeAnalyzer{}, dir, true, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "AAPL")
	assert.NotContains(t, out.String(), "TODAY'S OPPORTUNITIES")

	data, err := os.ReadFile(filepath.Join(dir, "market_brief_20260304_063000.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Market data collected successfully.")
}

func TestRunHTMLDisabled(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := newTestOrchestrator(&fakeCollector{snap: testSnapshot()}, &fakeAnalyzer{}, dir, false, &out).Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotEmpty(t, out.String())
}

func TestRunRecoversFromPanic(t *testing.T) {
	var out bytes.Buffer
	o := newTestOrchestrator(&fakeCollector{panic: true}, &fakeAnalyzer{}, t.TempDir(), true, &out)

	var err error
	assert.NotPanics(t, func() { err = o.Run(context.Background()) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote provider exploded")
	assert.Empty(t, out.String())
}

func TestRunNilSnapshot(t *testing.T) {
	var out bytes.Buffer
	analyzer := &fakeAnalyzer{}
	err := newTestOrchestrator(&fakeCollector{}, analyzer, t.TempDir(), true, &out).Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, analyzer.calls)
}

func TestRunOutputErrorIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	o := New(&fakeCollector{snap: testSnapshot()}, &fakeAnalyzer{}, config.ReportConfig{OutputDir: dir, HTMLEnabled: true}, arbor.NewLogger(), failingWriter{})
	o.now = func() time.Time { return runTime }

	require.NoError(t, o.Run(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "market_brief_20260304_063000.html"))
}

func TestRunHTMLWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var out bytes.Buffer
	err := newTestOrchestrator(&fakeCollector{snap: testSnapshot()}, &fakeAnalyzer{}, blocker, true, &out).Run(context.Background())
	assert.Error(t, err)
	assert.NotEmpty(t, out.String(), "terminal output precedes the HTML write")
}

func TestNewFromConfigWithoutKeys(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	cfg := &config.Config{
		Portfolio: []string{"AAPL"},
		LLM:       config.LLMConfig{Primary: "groq", Temperature: 0.3, MaxTokens: 3000},
		Report:    config.ReportConfig{OutputDir: t.TempDir(), HTMLEnabled: true},
	}
	var out bytes.Buffer

	o := NewFromConfig(context.Background(), cfg, arbor.NewLogger(), &out)
	require.NotNil(t, o)
	assert.NotNil(t, o.collector)
	assert.NotNil(t, o.analyzer)
}
