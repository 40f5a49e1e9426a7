package executor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/http"
)

// Sender is the transport capability used to issue requests.
type Sender interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RequestInfo is the resolved request as it was sent.
type RequestInfo struct {
	Query   *parser.Object `json:"query"`
	Body    *parser.Object `json:"body"`
	Headers *parser.Object `json:"headers"`
	FullURL string         `json:"full_url"`
}

// ResponseInfo carries response metadata. Timestamps are Unix milliseconds.
type ResponseInfo struct {
	HTTPStatus            int   `json:"http_status"`
	Duration              int64 `json:"duration"`
	RequestStartTimestamp int64 `json:"request_start_timestamp"`
	RequestStopTimestamp  int64 `json:"request_stop_timestamp"`
	ResponseData          any   `json:"response_data"`
}

type Result struct {
	Request  RequestInfo  `json:"request"`
	Response ResponseInfo `json:"response"`
}

type Executor struct {
	sender Sender
	now    func() time.Time
}

type Option func(*Executor)

// WithClock replaces the clock used for the start and stop timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

func New(sender Sender, opts ...Option) *Executor {
	e := &Executor{
		sender: sender,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute sends req once. A transport failure is returned as is and no result
// is produced.
func (e *Executor) Execute(ctx context.Context, req *parser.Request) (*Result, error) {
	treq, err := BuildTransportRequest(req)
	if err != nil {
		return nil, err
	}

	start := e.now()
	resp, err := e.sender.Send(ctx, treq)
	stop := e.now()
	if err != nil {
		return nil, err
	}

	startMs, stopMs := start.UnixMilli(), stop.UnixMilli()
	return &Result{
		Request: RequestInfo{
			Query:   req.Query,
			Body:    req.Body,
			Headers: req.Headers,
			FullURL: req.FullURL,
		},
		Response: ResponseInfo{
			HTTPStatus:            resp.StatusCode,
			Duration:              stopMs - startMs,
			RequestStartTimestamp: startMs,
			RequestStopTimestamp:  stopMs,
			ResponseData:          resp.Data(),
		},
	}, nil
}

// BuildTransportRequest maps a parsed request onto a transport request. The
// method is lower-cased and a JSON body is attached only to POST requests
// with a non-empty body.
func BuildTransportRequest(req *parser.Request) (*http.Request, error) {
	treq := http.NewRequest(req.Method.Lower(), req.FullURL)
	for _, k := range req.Headers.Keys() {
		treq.SetHeader(k, req.Headers.Text(k))
	}

	if req.HasBody() {
		body, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		treq.SetBody(string(body))
		if treq.Header("Content-Type") == "" {
			treq.SetHeader("Content-Type", "application/json")
		}
	}
	return treq, nil
}
