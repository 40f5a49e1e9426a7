package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/history"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating long strings
func formatValue(v any, maxLen int) string {
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatOutcome(o *Outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if o.Failed() {
		fmt.Fprintf(f.writer, "%s %s\n", red("✗"), o.Reqline)
		fmt.Fprintf(f.writer, "  %s\n", red(o.Message()))
		return
	}

	result := o.Envelope.Result
	fmt.Fprintf(f.writer, "%s %s %s %s\n",
		green("✓"),
		statusColor(result.Response.HTTPStatus)(fmt.Sprintf("%d", result.Response.HTTPStatus)),
		result.Request.FullURL,
		cyan(fmt.Sprintf("(%dms)", result.Response.Duration)),
	)

	if f.verbose {
		f.writeSection(dim, "Headers", result.Request.Headers)
		f.writeSection(dim, "Query", result.Request.Query)
		f.writeSection(dim, "Body", result.Request.Body)
		start := time.UnixMilli(result.Response.RequestStartTimestamp)
		fmt.Fprintf(f.writer, "  %s %s\n", dim("Started:"), start.Format(time.RFC3339Nano))
	}

	if data := renderData(result.Response.ResponseData); data != "" {
		fmt.Fprintf(f.writer, "\n%s\n", data)
	}
}

func (f *ConsoleFormatter) writeSection(label func(a ...any) string, name string, obj *parser.Object) {
	if obj == nil || obj.Len() == 0 {
		return
	}
	fmt.Fprintf(f.writer, "  %s %s\n", label(name+":"), obj.String())
}

// FormatRequest prints a parsed request without executing it
func (f *ConsoleFormatter) FormatRequest(req *parser.Request) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(string(req.Method)), req.FullURL)
	for _, k := range req.Headers.Keys() {
		fmt.Fprintf(f.writer, "  %s: %s\n", cyan(k), req.Headers.Text(k))
	}
	if req.Query.Len() > 0 {
		fmt.Fprintf(f.writer, "  %s %s\n", bold("Query:"), req.Query.String())
	}
	if req.Body.Len() > 0 {
		note := ""
		if !req.HasBody() {
			note = " (not sent with GET)"
		}
		fmt.Fprintf(f.writer, "  %s %s%s\n", bold("Body:"), req.Body.String(), note)
	}
}

// FormatHistory prints history entries as a table, newest first
func (f *ConsoleFormatter) FormatHistory(entries []*history.Entry) {
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if len(entries) == 0 {
		fmt.Fprintln(f.writer, dim("No history yet"))
		return
	}

	for _, e := range entries {
		when := e.CreatedAt.Format("2006-01-02 15:04:05")
		if e.Failed() {
			fmt.Fprintf(f.writer, "%s  %s  %s  %s\n", dim(when), red("ERR"), formatValue(e.Reqline, 80), red(e.Error))
			continue
		}
		fmt.Fprintf(f.writer, "%s  %s  %s  %s\n",
			dim(when),
			statusColor(e.HTTPStatus)(fmt.Sprintf("%3d", e.HTTPStatus)),
			formatValue(e.Reqline, 80),
			dim(fmt.Sprintf("%dms", e.DurationMs)),
		)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("reqline"), version)
}

func statusColor(status int) func(a ...any) string {
	switch {
	case status >= 500:
		return color.New(color.FgRed).SprintFunc()
	case status >= 300:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgGreen).SprintFunc()
	}
}

// renderData pretty-prints JSON response data and returns text as is.
func renderData(data any) string {
	switch v := data.(type) {
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Indent(&buf, v, "", "  "); err != nil {
			return string(v)
		}
		return buf.String()
	case string:
		return strings.TrimRight(v, "\n")
	case nil:
		return ""
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
}
