package bench

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *Summary {
	return &Summary{
		Duration:      2 * time.Second,
		TotalRequests: 1200,
		SuccessCount:  1190,
		ErrorCount:    10,
		RPS:           600,
		SuccessRate:   1190.0 / 1200,
		ErrorRate:     10.0 / 1200,
		P50:           12 * time.Millisecond,
		P95:           40 * time.Millisecond,
		P99:           90 * time.Millisecond,
		Max:           120 * time.Millisecond,
		Statuses:      []StatusCount{{Status: 200, Count: 1190}, {Status: 502, Count: 10}},
		Errors:        []ErrorCount{{Message: "Request failed with status code 502", Count: 10}},
	}
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(WithWriter(&buf), WithNoColor(true))

	r.Summary(sampleSummary(), []ThresholdResult{{Name: "p95", Passed: true, Expected: "< 50ms", Actual: "40ms"}})

	out := buf.String()
	assert.Contains(t, out, "BENCHMARK SUMMARY")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "p95: 40")
	assert.Contains(t, out, "502: 10")
	assert.Contains(t, out, "Request failed with status code 502")
	assert.Contains(t, out, "All thresholds passed!")
}

func TestReporter_JSONSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(WithWriter(&buf), WithNoColor(true))

	require.NoError(t, r.JSONSummary(sampleSummary(), nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "2s", out["duration"])
	assert.Equal(t, float64(1190), out["statuses"].(map[string]any)["200"])
	assert.Equal(t, float64(40), out["latency"].(map[string]any)["p95"])
	assert.NotContains(t, out, "thresholds")
}

func TestReporter_Progress(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(WithWriter(&buf), WithNoColor(true))

	r.Progress(1, 2)
	r.Progress(2, 2)
	assert.Contains(t, buf.String(), "2 / 2\n")

	buf.Reset()
	NewReporter(WithWriter(&buf), WithNoProgress(true)).Progress(1, 2)
	assert.Empty(t, buf.String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
