package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Reporter prints benchmark progress and results
type Reporter struct {
	mu         sync.Mutex
	writer     io.Writer
	noProgress bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
}

type ReporterOption func(*Reporter)

func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.writer = w
	}
}

// WithNoColor disables colored output
func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) {
		if noColor {
			color.NoColor = true
		}
	}
}

func WithNoProgress(noProgress bool) ReporterOption {
	return func(r *Reporter) {
		r.noProgress = noProgress
	}
}

func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		writer: os.Stdout,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.green = color.New(color.FgGreen)
	r.red = color.New(color.FgRed)
	r.yellow = color.New(color.FgYellow)
	r.cyan = color.New(color.FgCyan)
	r.bold = color.New(color.Bold)

	return r
}

// Header prints what is about to be benchmarked
func (r *Reporter) Header(version, target string, config *Config) {
	fmt.Fprintln(r.writer)
	r.bold.Fprintf(r.writer, "reqline bench %s\n", version)
	fmt.Fprintln(r.writer)

	r.cyan.Fprintf(r.writer, "Target: %s\n", target)

	details := []string{fmt.Sprintf("Requests: %d", config.Requests)}
	if config.Rate > 0 {
		details = append(details, fmt.Sprintf("Rate: %.0f req/s", config.Rate))
	} else {
		details = append(details, "Rate: unpaced")
	}
	details = append(details, fmt.Sprintf("Concurrency: %d", config.Concurrency))

	fmt.Fprintf(r.writer, "%s\n", strings.Join(details, " | "))
	fmt.Fprintln(r.writer)
}

// Progress redraws a single progress line. It is safe to call from the
// runner's workers.
func (r *Reporter) Progress(done, total int64) {
	if r.noProgress || total <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	const barWidth = 30
	filled := int(float64(done) / float64(total) * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	fmt.Fprintf(r.writer, "\r\033[KProgress %s %s / %s", bar, formatNumber(done), formatNumber(total))
	if done >= total {
		fmt.Fprintln(r.writer)
	}
}

// Summary prints the final summary
func (r *Reporter) Summary(summary *Summary, thresholdResults []ThresholdResult) {
	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "BENCHMARK SUMMARY")
	fmt.Fprintln(r.writer, strings.Repeat("─", 40))

	fmt.Fprintf(r.writer, "Duration:   %s\n", formatDuration(summary.Duration))
	fmt.Fprintf(r.writer, "Total:      ")
	r.bold.Fprintf(r.writer, "%s", formatNumber(summary.TotalRequests))
	fmt.Fprintf(r.writer, " requests (%.1f req/s)\n", summary.RPS)

	fmt.Fprintf(r.writer, "Success:    ")
	r.green.Fprintf(r.writer, "%s", formatNumber(summary.SuccessCount))
	fmt.Fprintf(r.writer, " (%.1f%%)\n", summary.SuccessRate*100)

	fmt.Fprintf(r.writer, "Failed:     ")
	if summary.ErrorCount > 0 {
		r.red.Fprintf(r.writer, "%s", formatNumber(summary.ErrorCount))
	} else {
		fmt.Fprintf(r.writer, "%s", formatNumber(summary.ErrorCount))
	}
	fmt.Fprintf(r.writer, " (%.1f%%)\n", summary.ErrorRate*100)

	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "LATENCY (ms)")
	fmt.Fprintf(r.writer, "  p50: %-6s | p95: %-6s | p99: %-6s | max: %s\n",
		formatLatencyMs(summary.P50),
		formatLatencyMs(summary.P95),
		formatLatencyMs(summary.P99),
		formatLatencyMs(summary.Max))
	fmt.Fprintf(r.writer, "  min: %-6s | mean: %-5s | stddev: %s\n",
		formatLatencyMs(summary.Min),
		formatLatencyMs(summary.Mean),
		formatLatencyMs(summary.StdDev))

	if len(summary.Statuses) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "STATUS CODES")
		for _, sc := range summary.Statuses {
			c := r.green
			switch {
			case sc.Status >= 500:
				c = r.red
			case sc.Status >= 300:
				c = r.yellow
			}
			fmt.Fprintf(r.writer, "  ")
			c.Fprintf(r.writer, "%d", sc.Status)
			fmt.Fprintf(r.writer, ": %s\n", formatNumber(sc.Count))
		}
	}

	if len(summary.Errors) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "ERRORS")
		for _, ec := range summary.Errors {
			fmt.Fprintf(r.writer, "  %s x ", formatNumber(ec.Count))
			r.red.Fprintln(r.writer, ec.Message)
		}
	}

	if len(thresholdResults) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "THRESHOLDS")
		allPassed := true
		for _, tr := range thresholdResults {
			if tr.Passed {
				r.green.Fprintf(r.writer, "  ✓ ")
			} else {
				r.red.Fprintf(r.writer, "  ✗ ")
				allPassed = false
			}
			fmt.Fprintf(r.writer, "%s %s    (actual: %s)\n", tr.Name, tr.Expected, tr.Actual)
		}

		fmt.Fprintln(r.writer)
		if allPassed {
			r.green.Fprintln(r.writer, "All thresholds passed!")
		} else {
			r.red.Fprintln(r.writer, "Some thresholds failed!")
		}
	}

	fmt.Fprintln(r.writer)
}

// JSONSummary writes the summary as indented JSON
func (r *Reporter) JSONSummary(summary *Summary, thresholdResults []ThresholdResult) error {
	output := map[string]any{
		"duration": summary.Duration.String(),
		"requests": map[string]any{
			"total":   summary.TotalRequests,
			"success": summary.SuccessCount,
			"failed":  summary.ErrorCount,
		},
		"rates": map[string]any{
			"rps":         summary.RPS,
			"successRate": summary.SuccessRate,
			"errorRate":   summary.ErrorRate,
		},
		"latency": map[string]any{
			"p50":    summary.P50.Milliseconds(),
			"p95":    summary.P95.Milliseconds(),
			"p99":    summary.P99.Milliseconds(),
			"min":    summary.Min.Milliseconds(),
			"max":    summary.Max.Milliseconds(),
			"mean":   summary.Mean.Milliseconds(),
			"stddev": summary.StdDev.Milliseconds(),
		},
	}

	statuses := make(map[string]int64, len(summary.Statuses))
	for _, sc := range summary.Statuses {
		statuses[fmt.Sprintf("%d", sc.Status)] = sc.Count
	}
	output["statuses"] = statuses

	if len(summary.Errors) > 0 {
		errs := make(map[string]int64, len(summary.Errors))
		for _, ec := range summary.Errors {
			errs[ec.Message] = ec.Count
		}
		output["errors"] = errs
	}

	if len(thresholdResults) > 0 {
		thresholds := make([]map[string]any, len(thresholdResults))
		for i, tr := range thresholdResults {
			thresholds[i] = map[string]any{
				"name":     tr.Name,
				"passed":   tr.Passed,
				"expected": tr.Expected,
				"actual":   tr.Actual,
			}
		}
		output["thresholds"] = thresholds
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

func formatLatencyMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	if ms < 1 {
		return fmt.Sprintf("%.2f", ms)
	}
	if ms < 10 {
		return fmt.Sprintf("%.1f", ms)
	}
	return fmt.Sprintf("%.0f", ms)
}

// formatNumber formats a number with thousands separators
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}

	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	start := len(s) % 3
	if start == 0 {
		start = 3
	}

	result = append(result, s[:start]...)
	for i := start; i < len(s); i += 3 {
		result = append(result, ',')
		result = append(result, s[i:i+3]...)
	}

	return string(result)
}
