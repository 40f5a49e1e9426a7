package executor

import (
	"context"
	"errors"
	"io"

	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/core/validator"
	"github.com/sirupsen/logrus"
)

// FallbackMessage is used when a failure carries no message of its own.
const FallbackMessage = "An unexpected error occurred while processing the request"

// Recorder receives every processed statement together with its outcome.
type Recorder interface {
	Record(ctx context.Context, reqline string, env *Envelope) error
}

// Service validates, parses and executes reqline envelopes.
type Service struct {
	validator *validator.Validator
	executor  *Executor
	recorder  Recorder
	logger    logrus.FieldLogger
}

type ServiceOption func(*Service)

// WithRecorder stores every outcome through r. Recording failures are logged
// and never change the envelope.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithLogger(logger logrus.FieldLogger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(v *validator.Validator, e *Executor, opts ...ServiceOption) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &Service{
		validator: v,
		executor:  e,
		logger:    discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process handles one input envelope. It never panics and never returns nil.
func (s *Service) Process(ctx context.Context, payload any) (env *Envelope) {
	var reqline string
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("recovered while processing reqline")
			env = Failure(FallbackMessage)
		}
		s.record(ctx, reqline, env)
	}()

	reqline, err := s.validator.Validate(payload)
	if err != nil {
		return failureFrom(err)
	}
	return s.ProcessStatement(ctx, reqline)
}

// ProcessStatement parses and executes an already extracted statement.
func (s *Service) ProcessStatement(ctx context.Context, reqline string) *Envelope {
	req, err := parser.Parse(reqline)
	if err != nil {
		return failureFrom(err)
	}

	result, err := s.executor.Execute(ctx, req)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"full_url": req.FullURL,
			"method":   req.Method,
		}).WithError(err).Debug("request execution failed")
		return failureFrom(err)
	}
	return Success(result)
}

func (s *Service) record(ctx context.Context, reqline string, env *Envelope) {
	if s.recorder == nil || reqline == "" {
		return
	}
	// a cancelled request still gets recorded
	if err := s.recorder.Record(context.WithoutCancel(ctx), reqline, env); err != nil {
		s.logger.WithError(err).Warn("failed to record reqline")
	}
}

func failureFrom(err error) *Envelope {
	var (
		perr *parser.ParseError
		verr *validator.ValidationError
		msg  string
	)
	switch {
	case errors.As(err, &perr):
		msg = perr.Message
	case errors.As(err, &verr):
		msg = verr.Message
	default:
		msg = err.Error()
	}
	if msg == "" {
		msg = FallbackMessage
	}

	env := Failure(msg)
	env.Cause = err
	return env
}
