package bench

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/http"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Target runs a parsed statement once. *executor.Executor satisfies it.
type Target interface {
	Execute(ctx context.Context, req *parser.Request) (*executor.Result, error)
}

// Runner drives a benchmark against a Target
type Runner struct {
	config   *Config
	target   Target
	limiter  *rate.Limiter
	sem      chan struct{}
	metrics  *Metrics
	logger   logrus.FieldLogger
	progress func(done, total int64)
}

type RunnerOption func(*Runner)

func WithLogger(logger logrus.FieldLogger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithProgress registers a callback invoked after every completed request.
func WithProgress(fn func(done, total int64)) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

func NewRunner(target Target, config *Config, opts ...RunnerOption) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := &Runner{
		config:  config,
		target:  target,
		sem:     make(chan struct{}, config.Concurrency),
		metrics: NewMetrics(),
		logger:  logger,
	}
	if config.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.Rate), 1)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run sends config.Requests copies of req and returns the summary. Cancelling
// ctx stops scheduling; requests already in flight are allowed to finish and
// the partial summary is returned with ctx's error.
func (r *Runner) Run(ctx context.Context, req *parser.Request) (*Summary, error) {
	var (
		wg   sync.WaitGroup
		done atomic.Int64
		err  error
	)
	total := int64(r.config.Requests)

	r.logger.WithFields(logrus.Fields{
		"url":         req.FullURL,
		"requests":    r.config.Requests,
		"rate":        r.config.Rate,
		"concurrency": r.config.Concurrency,
	}).Info("benchmark started")

	r.metrics.Start()

schedule:
	for i := 0; i < r.config.Requests; i++ {
		if r.limiter != nil {
			if err = r.limiter.Wait(ctx); err != nil {
				break
			}
		}

		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			err = ctx.Err()
			break schedule
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-r.sem }()

			r.fire(ctx, req)
			n := done.Add(1)
			if r.progress != nil {
				r.progress(n, total)
			}
		}()
	}

	wg.Wait()
	r.metrics.Stop()

	summary := r.metrics.GetSummary()
	r.logger.WithFields(logrus.Fields{
		"total":  summary.TotalRequests,
		"errors": summary.ErrorCount,
		"p95":    summary.P95.String(),
	}).Info("benchmark finished")

	return summary, err
}

func (r *Runner) fire(ctx context.Context, req *parser.Request) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := r.target.Execute(ctx, req)
	elapsed := time.Since(start)

	status := 0
	if result != nil {
		status = result.Response.HTTPStatus
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.StatusCode
	}
	if err != nil {
		r.logger.WithError(err).Debug("request failed")
	}

	r.metrics.Record(elapsed, status, err)
}
