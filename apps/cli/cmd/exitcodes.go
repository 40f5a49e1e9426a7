package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/core/validator"
)

// Exit codes for the reqline CLI
const (
	// ExitSuccess indicates every statement succeeded
	ExitSuccess = 0

	// ExitFailure indicates a failure not covered by a more specific code
	ExitFailure = 1

	// ExitParseError indicates a statement was rejected by the parser
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a transport failure or a non-2xx response
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code for a failed command. Message-less
// exit errors have already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitWith(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// exitCodeFor maps an error returned by a command to its exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// envelopeExitCode classifies a failed envelope by its cause.
func envelopeExitCode(env *executor.Envelope) int {
	if !env.Failed() {
		return ExitSuccess
	}

	var (
		perr *parser.ParseError
		verr *validator.ValidationError
	)
	switch {
	case errors.As(env.Cause, &perr):
		return ExitParseError
	case errors.As(env.Cause, &verr):
		return ExitUsageError
	case env.Cause != nil:
		return ExitNetworkError
	default:
		return ExitFailure
	}
}
