package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successOutcome(t *testing.T) *Outcome {
	t.Helper()
	query, err := parser.ParseObject(`{"limit": 1}`)
	require.NoError(t, err)

	return &Outcome{
		Reqline: `HTTP GET | URL https://example.com/a | QUERY {"limit": 1}`,
		Envelope: executor.Success(&executor.Result{
			Request: executor.RequestInfo{
				Query:   query,
				Body:    parser.NewObject(),
				Headers: parser.NewObject(),
				FullURL: "https://example.com/a?limit=1",
			},
			Response: executor.ResponseInfo{
				HTTPStatus:            200,
				Duration:              42,
				RequestStartTimestamp: 1700000000000,
				RequestStopTimestamp:  1700000000042,
				ResponseData:          json.RawMessage(`{"id":1}`),
			},
		}),
	}
}

func failureOutcome() *Outcome {
	return &Outcome{
		Reqline:  "HTTP PUT | URL https://example.com",
		Envelope: executor.Failure("Invalid HTTP method. Only GET and POST are supported"),
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range Formats {
		f, err := NewFormatter(name, Options{Writer: &bytes.Buffer{}, NoColor: true})
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("html", Options{})
	assert.Error(t, err)
}

func TestConsoleFormatter_Outcome(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatOutcome(successOutcome(t))
	out := buf.String()
	assert.Contains(t, out, "✓ 200 https://example.com/a?limit=1 (42ms)")
	assert.Contains(t, out, `Query: {"limit":1}`)
	assert.NotContains(t, out, "Headers:")
	assert.Contains(t, out, "\"id\": 1")

	buf.Reset()
	f.FormatOutcome(failureOutcome())
	assert.Equal(t, "✗ HTTP PUT | URL https://example.com\n  Invalid HTTP method. Only GET and POST are supported\n", buf.String())
}

func TestConsoleFormatter_Request(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	req, err := parser.Parse(`HTTP GET | URL https://example.com | HEADERS {"X-Token": "abc"} | BODY {"a": 1}`)
	require.NoError(t, err)
	f.FormatRequest(req)

	out := buf.String()
	assert.Contains(t, out, "GET https://example.com\n")
	assert.Contains(t, out, "X-Token: abc")
	assert.Contains(t, out, `Body: {"a":1} (not sent with GET)`)
}

func TestConsoleFormatter_History(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHistory(nil)
	assert.Contains(t, buf.String(), "No history yet")

	buf.Reset()
	f.FormatHistory([]*history.Entry{
		{Reqline: "HTTP GET | URL https://a.com", HTTPStatus: 200, DurationMs: 9, CreatedAt: time.Now()},
		{Reqline: "HTTP get | URL https://a.com", Error: "HTTP method must be uppercase", CreatedAt: time.Now()},
	})
	out := buf.String()
	assert.Contains(t, out, "200  HTTP GET | URL https://a.com  9ms")
	assert.Contains(t, out, "ERR  HTTP get | URL https://a.com  HTTP method must be uppercase")
}

func TestJSONFormatter_Outcome(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatOutcome(successOutcome(t))
	assert.JSONEq(t, `{
		"request": {"query": {"limit": 1}, "body": {}, "headers": {}, "full_url": "https://example.com/a?limit=1"},
		"response": {
			"http_status": 200,
			"duration": 42,
			"request_start_timestamp": 1700000000000,
			"request_stop_timestamp": 1700000000042,
			"response_data": {"id": 1}
		}
	}`, buf.String())

	buf.Reset()
	f.FormatOutcome(failureOutcome())
	assert.JSONEq(t, `{"error": true, "message": "Invalid HTTP method. Only GET and POST are supported"}`, buf.String())

	buf.Reset()
	f.FormatError(errors.New("open x: no such file"))
	assert.JSONEq(t, `{"error": true, "message": "open x: no such file"}`, buf.String())
}

func TestJSONFormatter_Request(t *testing.T) {
	var buf bytes.Buffer
	req, err := parser.Parse(`HTTP POST | URL https://example.com | BODY {"b": 1, "a": 2}`)
	require.NoError(t, err)

	NewJSONFormatter(JSONWithWriter(&buf)).FormatRequest(req)
	assert.JSONEq(t, `{
		"method": "POST",
		"url": "https://example.com",
		"headers": {},
		"query": {},
		"body": {"b": 1, "a": 2},
		"full_url": "https://example.com"
	}`, buf.String())
}

func TestJSONFormatter_History(t *testing.T) {
	var buf bytes.Buffer
	NewJSONFormatter(JSONWithWriter(&buf)).FormatHistory([]*history.Entry{
		{ID: "1", Reqline: "HTTP GET | URL https://a.com", HTTPStatus: 200, CreatedAt: time.UnixMilli(0)},
	})
	assert.JSONEq(t, `[{"id": "1", "reqline": "HTTP GET | URL https://a.com", "http_status": 200, "created_at": "1970-01-01T00:00:00Z"}]`, buf.String())
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatOutcome(successOutcome(t))
	f.FormatOutcome(failureOutcome())
	require.NoError(t, f.Flush(50*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n1..2\n")
	assert.Contains(t, out, "ok 1 - HTTP GET | URL https://example.com/a")
	assert.Contains(t, out, "  http_status: 200\n")
	assert.Contains(t, out, "not ok 2 - HTTP PUT | URL https://example.com\n  ---\n")
	assert.Contains(t, out, "  message: Invalid HTTP method. Only GET and POST are supported\n")
	assert.Contains(t, out, "# time=50ms")
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatOutcome(successOutcome(t))
	f.FormatOutcome(failureOutcome())
	f.FormatError(errors.New("boom"))
	require.NoError(t, f.Flush(time.Second))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuites, 1)
	cases := suites.TestSuites[0].TestCases
	require.Len(t, cases, 3)
	assert.Nil(t, cases[0].Failure)
	assert.InDelta(t, 0.042, cases[0].Time, 1e-9)
	assert.Equal(t, "Invalid HTTP method. Only GET and POST are supported", cases[1].Failure.Message)
	assert.Equal(t, "boom", cases[2].Error.Message)
}
