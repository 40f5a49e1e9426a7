package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/reqline/packages/bench"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/spf13/cobra"
)

var (
	benchRequestsFlag    int
	benchRateFlag        float64
	benchConcurrencyFlag int
	benchThresholdFlag   string
	benchNoProgressFlag  bool
	benchJSONFlag        bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <statement>",
	Short: "Fire one statement repeatedly and report latency",
	Long: `Send the same reqline statement many times with bounded concurrency and an
optional target rate, then report throughput, latency percentiles and the
status code distribution.

Examples:
  reqline bench 'HTTP GET | URL https://example.com' --requests 500 --concurrency 20
  reqline bench 'HTTP GET | URL https://example.com' -n 1000 -r 100
  reqline bench 'HTTP GET | URL https://example.com' --threshold "p95<200ms,errors<1%"`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

func init() {
	defaults := bench.DefaultConfig()
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", getEnvInt("REQLINE_BENCH_REQUESTS", defaults.Requests), "Total requests to send (env: REQLINE_BENCH_REQUESTS)")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", getEnvFloat("REQLINE_BENCH_RATE", defaults.Rate), "Target requests per second, 0 for unpaced (env: REQLINE_BENCH_RATE)")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", getEnvInt("REQLINE_BENCH_CONCURRENCY", defaults.Concurrency), "Maximum in-flight requests (env: REQLINE_BENCH_CONCURRENCY)")
	benchCmd.Flags().StringVar(&benchThresholdFlag, "threshold", "", "Pass/fail thresholds (e.g., \"p95<200ms,errors<0.1%\")")
	benchCmd.Flags().BoolVar(&benchNoProgressFlag, "no-progress", false, "Disable the progress line")
	benchCmd.Flags().BoolVar(&benchJSONFlag, "json", false, "Output results as JSON")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver(appConfig)
	if err != nil {
		return err
	}
	stmt, err := resolveStatement(resolver, args[0])
	if err != nil {
		return exitWith(ExitParseError, err)
	}

	req, err := parser.Parse(stmt)
	if err != nil {
		return exitWith(ExitParseError, err)
	}

	cfg := &bench.Config{
		Requests:    benchRequestsFlag,
		Rate:        benchRateFlag,
		Concurrency: benchConcurrencyFlag,
	}
	if benchThresholdFlag != "" {
		t, err := bench.ParseThresholds(benchThresholdFlag)
		if err != nil {
			return exitWith(ExitUsageError, fmt.Errorf("invalid threshold: %w", err))
		}
		cfg.Thresholds = t
	}

	reporter := bench.NewReporter(
		bench.WithWriter(cmd.OutOrStdout()),
		bench.WithNoColor(appConfig.GetNoColor()),
		bench.WithNoProgress(benchNoProgressFlag || benchJSONFlag),
	)

	runner, err := bench.NewRunner(newExecutor(appConfig), cfg,
		bench.WithLogger(logger),
		bench.WithProgress(reporter.Progress),
	)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	if !benchJSONFlag {
		reporter.Header(version, req.FullURL, cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx, req)
	if err != nil && !errors.Is(err, context.Canceled) {
		return exitWith(ExitFailure, err)
	}

	results := summary.EvaluateThresholds(cfg.Thresholds)
	if benchJSONFlag {
		if err := reporter.JSONSummary(summary, results); err != nil {
			return err
		}
	} else {
		reporter.Summary(summary, results)
	}

	for _, r := range results {
		if !r.Passed {
			return exitWith(ExitFailure, nil)
		}
	}
	return nil
}
