package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/history"
)

// JSONRequest is a parsed request as printed by the parse command
type JSONRequest struct {
	Method  parser.Method  `json:"method"`
	URL     string         `json:"url"`
	Headers *parser.Object `json:"headers"`
	Query   *parser.Object `json:"query"`
	Body    *parser.Object `json:"body"`
	FullURL string         `json:"full_url"`
}

// JSONHistoryEntry is one history row
type JSONHistoryEntry struct {
	ID         string `json:"id"`
	Reqline    string `json:"reqline"`
	FullURL    string `json:"full_url,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	DurationMs int64  `json:"duration,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// JSONFormatter writes every envelope as soon as it is produced, one indented
// document per statement.
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *JSONFormatter) FormatOutcome(o *Outcome) {
	env := o.Envelope
	if env == nil {
		env = executor.Failure(executor.FallbackMessage)
	}
	_ = f.encode(env)
}

func (f *JSONFormatter) FormatRequest(req *parser.Request) {
	_ = f.encode(JSONRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
		Query:   req.Query,
		Body:    req.Body,
		FullURL: req.FullURL,
	})
}

func (f *JSONFormatter) FormatHistory(entries []*history.Entry) {
	out := make([]JSONHistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = JSONHistoryEntry{
			ID:         e.ID,
			Reqline:    e.Reqline,
			FullURL:    e.FullURL,
			HTTPStatus: e.HTTPStatus,
			DurationMs: e.DurationMs,
			Error:      e.Error,
			CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	_ = f.encode(out)
}

// FormatError writes the failure envelope shape so consumers see one format.
func (f *JSONFormatter) FormatError(err error) {
	_ = f.encode(executor.Failure(err.Error()))
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}
