package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TAPFormatter formats outcomes in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer  io.Writer
	results []tapResult
}

type tapResult struct {
	name       string
	passed     bool
	diagnostic map[string]any
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatOutcome(o *Outcome) {
	tr := tapResult{
		name:   o.Reqline,
		passed: !o.Failed(),
	}

	if o.Failed() {
		message := o.Message()
		tr.diagnostic = map[string]any{
			"message":  message,
			"severity": "fail",
		}
	} else {
		resp := o.Envelope.Result.Response
		tr.diagnostic = map[string]any{
			"full_url":    o.Envelope.Result.Request.FullURL,
			"http_status": resp.HTTPStatus,
			"duration_ms": resp.Duration,
		}
	}

	f.results = append(f.results, tr)
}

func (f *TAPFormatter) FormatError(err error) {
	f.results = append(f.results, tapResult{
		name:       "error",
		diagnostic: map[string]any{"message": err.Error(), "severity": "error"},
	})
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(f.results))

	for i, r := range f.results {
		status := "ok"
		if !r.passed {
			status = "not ok"
		}
		fmt.Fprintf(f.writer, "%s %d - %s\n", status, i+1, r.name)

		if len(r.diagnostic) == 0 {
			continue
		}
		if err := f.writeDiagnostic(r.diagnostic); err != nil {
			return err
		}
	}

	fmt.Fprintf(f.writer, "# time=%dms\n", totalDuration.Milliseconds())
	return nil
}

// writeDiagnostic emits a YAML block indented under its test point
func (f *TAPFormatter) writeDiagnostic(d map[string]any) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	fmt.Fprintf(f.writer, "  ---\n")
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Fprintf(f.writer, "  %s\n", line)
	}
	fmt.Fprintf(f.writer, "  ...\n")
	return nil
}
