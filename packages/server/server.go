// Package server exposes reqline processing over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAddr is the address the server listens on when none is given
	DefaultAddr = ":8811"
	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 5 * time.Second
	// MaxBodyBytes caps the size of an incoming envelope
	MaxBodyBytes = 1 << 20

	requestIDHeader = "X-Request-ID"
)

// Processor turns an input envelope into an outcome envelope.
type Processor interface {
	Process(ctx context.Context, payload any) *executor.Envelope
}

// Server is the HTTP surface in front of a Processor.
type Server struct {
	processor Processor
	addr      string
	logger    logrus.FieldLogger
	router    chi.Router
}

// Option is a functional option for Server
type Option func(*Server)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger used for access and error logs
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new server
func NewServer(p Processor, opts ...Option) *Server {
	s := &Server{
		processor: p,
		addr:      DefaultAddr,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleReqline)
	r.Get("/healthz", s.handleHealth)

	s.router = r
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.addr
}

// StartWithContext starts the server and shuts it down gracefully once ctx
// is cancelled.
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Warn("server shutdown did not complete")
		}
	}()

	s.logger.WithField("addr", s.addr).Info("reqline server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) handleReqline(w http.ResponseWriter, r *http.Request) {
	var payload any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, executor.Failure("Invalid JSON request body"))
		return
	}

	env := s.processor.Process(r.Context(), payload)
	status := http.StatusOK
	if env.Failed() {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, r, status, env)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", RequestID(r.Context())).Error("failed to encode response")
		status = http.StatusInternalServerError
		data, _ = json.Marshal(executor.Failure(executor.FallbackMessage))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
