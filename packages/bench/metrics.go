package bench

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics collects latency and outcome counts. It is safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	totalRequests   atomic.Int64
	successRequests atomic.Int64
	errorRequests   atomic.Int64

	// microseconds, 1us to 60s, 3 significant digits
	histogram *hdrhistogram.Histogram
	statuses  map[int]int64
	errors    map[string]int64

	startTime time.Time
	endTime   time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		statuses:  make(map[int]int64),
		errors:    make(map[string]int64),
	}
}

func (m *Metrics) Start() {
	m.startTime = time.Now()
}

func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one request. status is 0 when no response was received.
func (m *Metrics) Record(duration time.Duration, status int, err error) {
	m.totalRequests.Add(1)
	if err != nil {
		m.errorRequests.Add(1)
	} else {
		m.successRequests.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.histogram.RecordValue(latencyUs)
	if status > 0 {
		m.statuses[status]++
	}
	if err != nil {
		m.errors[err.Error()]++
	}
}

// StatusCount is the number of responses seen with one status code.
type StatusCount struct {
	Status int
	Count  int64
}

// ErrorCount is the number of failures sharing one message.
type ErrorCount struct {
	Message string
	Count   int64
}

// Summary is the final result of a run.
type Summary struct {
	Duration      time.Duration
	TotalRequests int64
	SuccessCount  int64
	ErrorCount    int64

	RPS         float64
	SuccessRate float64
	ErrorRate   float64

	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration

	// Sorted by status code
	Statuses []StatusCount
	// Sorted by count, most frequent first
	Errors []ErrorCount
}

func (m *Metrics) GetSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.totalRequests.Load()
	success := m.successRequests.Load()
	errs := m.errorRequests.Load()

	rps := float64(0)
	if duration.Seconds() > 0 {
		rps = float64(total) / duration.Seconds()
	}

	successRate := float64(0)
	errorRate := float64(0)
	if total > 0 {
		successRate = float64(success) / float64(total)
		errorRate = float64(errs) / float64(total)
	}

	summary := &Summary{
		Duration:      duration,
		TotalRequests: total,
		SuccessCount:  success,
		ErrorCount:    errs,
		RPS:           rps,
		SuccessRate:   successRate,
		ErrorRate:     errorRate,
		P50:           usToDuration(m.histogram.ValueAtQuantile(50)),
		P95:           usToDuration(m.histogram.ValueAtQuantile(95)),
		P99:           usToDuration(m.histogram.ValueAtQuantile(99)),
		Min:           usToDuration(m.histogram.Min()),
		Max:           usToDuration(m.histogram.Max()),
		Mean:          time.Duration(m.histogram.Mean()) * time.Microsecond,
		StdDev:        time.Duration(m.histogram.StdDev()) * time.Microsecond,
	}

	for status, count := range m.statuses {
		summary.Statuses = append(summary.Statuses, StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.Statuses, func(i, j int) bool {
		return summary.Statuses[i].Status < summary.Statuses[j].Status
	})

	for msg, count := range m.errors {
		summary.Errors = append(summary.Errors, ErrorCount{Message: msg, Count: count})
	}
	sort.Slice(summary.Errors, func(i, j int) bool {
		if summary.Errors[i].Count != summary.Errors[j].Count {
			return summary.Errors[i].Count > summary.Errors[j].Count
		}
		return summary.Errors[i].Message < summary.Errors[j].Message
	})

	return summary
}

func usToDuration(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

// EvaluateThresholds checks s against every configured threshold
func (s *Summary) EvaluateThresholds(t Thresholds) []ThresholdResult {
	var results []ThresholdResult

	latency := []struct {
		name  string
		limit time.Duration
		value time.Duration
	}{
		{"p50", t.P50, s.P50},
		{"p95", t.P95, s.P95},
		{"p99", t.P99, s.P99},
		{"max latency", t.MaxLatency, s.Max},
	}
	for _, l := range latency {
		if l.limit <= 0 {
			continue
		}
		results = append(results, ThresholdResult{
			Name:     l.name,
			Passed:   l.value <= l.limit,
			Expected: "< " + l.limit.String(),
			Actual:   l.value.String(),
		})
	}

	if t.ErrorRate > 0 {
		results = append(results, ThresholdResult{
			Name:     "error rate",
			Passed:   s.ErrorRate <= t.ErrorRate,
			Expected: formatPercent(t.ErrorRate),
			Actual:   formatPercent(s.ErrorRate),
		})
	}

	if t.MinRPS > 0 {
		results = append(results, ThresholdResult{
			Name:     "min RPS",
			Passed:   s.RPS >= t.MinRPS,
			Expected: "> " + formatFloat(t.MinRPS),
			Actual:   formatFloat(s.RPS),
		})
	}

	return results
}

func formatPercent(f float64) string {
	return formatFloat(f*100) + "%"
}

func formatFloat(f float64) string {
	if f == float64(int(f)) {
		return strconv.Itoa(int(f))
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
