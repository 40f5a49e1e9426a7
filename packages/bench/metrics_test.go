package bench

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.Start()

	m.Record(100*time.Millisecond, 200, nil)
	m.Record(150*time.Millisecond, 200, nil)
	m.Record(50*time.Millisecond, 404, errors.New("Request failed with status code 404"))
	m.Record(10*time.Millisecond, 0, errors.New("connection refused"))

	m.Stop()

	summary := m.GetSummary()
	assert.Equal(t, int64(4), summary.TotalRequests)
	assert.Equal(t, int64(2), summary.SuccessCount)
	assert.Equal(t, int64(2), summary.ErrorCount)
	assert.InDelta(t, 0.5, summary.ErrorRate, 0.001)

	assert.Equal(t, []StatusCount{{Status: 200, Count: 2}, {Status: 404, Count: 1}}, summary.Statuses)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, "Request failed with status code 404", summary.Errors[0].Message)
}

func TestMetricsSummaryPercentiles(t *testing.T) {
	m := NewMetrics()
	m.Start()

	for i := 0; i < 100; i++ {
		m.Record(time.Duration(i+1)*time.Millisecond, 200, nil)
	}

	m.Stop()

	summary := m.GetSummary()
	assert.Equal(t, int64(100), summary.TotalRequests)
	assert.InDelta(t, 1.0, summary.SuccessRate, 0.001)

	assert.InDelta(t, float64(50*time.Millisecond), float64(summary.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(summary.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Millisecond), float64(summary.Min), float64(10*time.Microsecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(summary.Max), float64(time.Millisecond))
	assert.True(t, summary.P50 <= summary.P95)
	assert.True(t, summary.P95 <= summary.P99)
}

func TestMetricsClampsLatency(t *testing.T) {
	m := NewMetrics()
	m.Record(0, 200, nil)
	m.Record(2*time.Minute, 200, nil)

	summary := m.GetSummary()
	assert.Equal(t, int64(2), summary.TotalRequests)
	assert.Equal(t, time.Microsecond, summary.Min)
	assert.InDelta(t, float64(time.Minute), float64(summary.Max), float64(time.Second))
}

func TestEvaluateThresholds(t *testing.T) {
	summary := &Summary{
		P95:       150 * time.Millisecond,
		P99:       300 * time.Millisecond,
		ErrorRate: 0.02,
		RPS:       40,
	}

	results := summary.EvaluateThresholds(Thresholds{
		P95:       200 * time.Millisecond,
		P99:       250 * time.Millisecond,
		ErrorRate: 0.05,
		MinRPS:    50,
	})
	require.Len(t, results, 4)

	byName := map[string]ThresholdResult{}
	for _, r := range results {
		byName[r.Name] = r
	}

	assert.True(t, byName["p95"].Passed)
	assert.False(t, byName["p99"].Passed)
	assert.True(t, byName["error rate"].Passed)
	assert.Equal(t, "2%", byName["error rate"].Actual)
	assert.False(t, byName["min RPS"].Passed)
	assert.Equal(t, "40", byName["min RPS"].Actual)

	assert.Empty(t, summary.EvaluateThresholds(Thresholds{}))
}
