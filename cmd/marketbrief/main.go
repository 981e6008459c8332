// marketbrief produces a daily news-driven market brief for a stock portfolio.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/brief"
	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/infra"
	"github.com/seenimoa/marketbrief/internal/llm"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg    *config.Config
	logger arbor.ILogger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketbrief",
	Short: "Daily news-driven market brief for your portfolio",
	Long: `marketbrief collects index levels, prices, fundamentals and recent news
for a portfolio, asks a language model for a structured analysis, and renders
the result in the terminal and as a self-contained HTML report.

Run without a subcommand to produce one brief now.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger = infra.InitLogger(cfg.Logging, "")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runOnce(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(statusCmd)
}

// runOnce produces one brief. Failures are logged; the process still exits 0.
func runOnce(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info().
		Str("portfolio", strings.Join(cfg.Portfolio, ", ")).
		Str("provider", cfg.LLM.Primary).
		Msg("Stock analyst started")

	if err := brief.NewFromConfig(ctx, cfg, logger, os.Stdout).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Error in daily analysis")
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketbrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Schedule Command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the brief on a daily cron schedule",
	Long: `Run the brief every time the cron expression in schedule.cron fires
(default "30 6 * * *", 6:30 AM local time). Stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		spec := cfg.Schedule.Cron
		if override, _ := cmd.Flags().GetString("cron"); override != "" {
			spec = override
		}

		orchestrator := brief.NewFromConfig(ctx, cfg, logger, os.Stdout)
		scheduler := brief.NewScheduler(orchestrator, logger)
		if err := scheduler.Start(spec); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}

		if now, _ := cmd.Flags().GetBool("now"); now {
			scheduler.RunNow()
		}

		fmt.Printf("⏰ Next brief: %s\n", scheduler.Next().Format(utils.HeaderLayout))
		fmt.Println("Press Ctrl+C to stop")

		<-ctx.Done()
		<-scheduler.Stop().Done()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().String("cron", "", "cron expression override (five fields)")
	scheduleCmd.Flags().Bool("now", false, "produce one brief immediately before waiting")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, API key and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  marketbrief: System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus(time.Now()))
		fmt.Printf("  Time (ET):     %s\n", utils.NowET().Format(utils.HeaderLayout))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Portfolio:     %s\n", strings.Join(cfg.Portfolio, ", "))
		fmt.Printf("    LLM Provider:  %s (model: %s)\n", cfg.LLM.Primary, cfg.LLM.Model)
		if len(cfg.LLM.Fallbacks) > 0 {
			fmt.Printf("    Fallbacks:     %s\n", strings.Join(cfg.LLM.Fallbacks, ", "))
		}
		fmt.Printf("    Report Dir:    %s (html: %t)\n", cfg.Report.OutputDir, cfg.Report.HTMLEnabled)
		fmt.Printf("    Schedule:      %s\n", cfg.Schedule.Cron)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		if ping, _ := cmd.Flags().GetBool("ping"); ping {
			fmt.Println()
			fmt.Println("  Providers:")
			router, err := llm.NewRouterFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				fmt.Printf("    %v\n", err)
			} else {
				health := router.HealthCheck(cmd.Context())
				for _, name := range router.ProviderNames() {
					status := "✅ reachable"
					if err := health[name]; err != nil {
						status = "❌ " + err.Error()
					}
					fmt.Printf("    %-25s %s\n", name+":", status)
				}
			}
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("ping", false, "ping each configured LLM provider")
}
