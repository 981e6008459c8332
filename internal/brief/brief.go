// Package brief sequences one daily brief: collect, analyze, render.
package brief

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/analyst"
	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/datasource"
	"github.com/seenimoa/marketbrief/internal/llm"
	"github.com/seenimoa/marketbrief/internal/report"
	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Collector builds the market snapshot for a run.
type Collector interface {
	Collect(ctx context.Context, runID string) *models.MarketSnapshot
}

// Analyzer interprets a snapshot; nil means no analysis.
type Analyzer interface {
	Analyze(ctx context.Context, snap *models.MarketSnapshot) *models.AnalysisResult
}

// Orchestrator runs Collect → Analyze → render once per call to Run.
type Orchestrator struct {
	collector Collector
	analyzer  Analyzer
	report    config.ReportConfig
	logger    arbor.ILogger
	out       io.Writer
	now       func() time.Time
	newRunID  func() string
}

// New creates an orchestrator that prints the terminal brief to out.
func New(collector Collector, analyzer Analyzer, cfg config.ReportConfig, logger arbor.ILogger, out io.Writer) *Orchestrator {
	return &Orchestrator{
		collector: collector,
		analyzer:  analyzer,
		report:    cfg,
		logger:    logger,
		out:       out,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// NewFromConfig wires the Yahoo Finance quote provider, the news feed
// client and the LLM router described by cfg. A router that cannot be built
// leaves the run without analysis.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger arbor.ILogger, out io.Writer) *Orchestrator {
	quotes := datasource.NewYFinance()
	feeds := datasource.NewFeedClient(nil)
	news := datasource.NewNewsFetcher(quotes, feeds, cfg.News.FeedBaseURL, logger)
	collector := datasource.NewCollector(quotes, news, cfg, logger)

	var provider llm.LLMProvider
	router, err := llm.NewRouterFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("primary", cfg.LLM.Primary).Msg("No LLM provider configured; brief will omit analysis")
	} else {
		provider = router
	}

	return New(collector, analyst.NewAnalyst(provider, cfg.LLM, logger), cfg.Report, logger, out)
}

// Run performs one brief. Failures, including panics, are logged with a
// stack trace and returned; they never escape as panics.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	runID := o.newRunID()
	start := o.now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("brief: run %s panicked: %v", runID, r)
			o.logger.Error().
				Str("run_id", runID).
				Str("stack", string(debug.Stack())).
				Msg(err.Error())
		}
	}()

	o.logger.Info().Str("run_id", runID).Str("time", start.Format(models.TimestampLayout)).Msg("Starting daily analysis with news")

	snap := o.collector.Collect(ctx, runID)
	if snap == nil {
		return fmt.Errorf("brief: run %s: collector returned no snapshot", runID)
	}

	analysis := o.analyzer.Analyze(ctx, snap)
	if analysis == nil {
		o.logger.Warn().Str("run_id", runID).Msg("Rendering brief without analysis")
	}

	if _, err := io.WriteString(o.out, report.Terminal(snap, analysis)); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to write terminal brief")
	}

	if o.report.HTMLEnabled {
		path, err := report.WriteHTML(o.report.OutputDir, snap, analysis, o.now())
		if err != nil {
			o.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to write HTML report")
			return err
		}
		o.logger.Info().Str("run_id", runID).Str("path", path).Msg("Report saved")
	}

	o.logger.Info().
		Str("run_id", runID).
		Str("market", utils.MarketStatus(o.now())).
		Str("duration", o.now().Sub(start).Round(time.Millisecond).String()).
		Msg("Daily analysis complete")
	return nil
}
