package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatTAP     = "tap"
	FormatJUnit   = "junit"
)

// Formats lists every name accepted by NewFormatter.
var Formats = []string{FormatConsole, FormatJSON, FormatTAP, FormatJUnit}

// Outcome is one processed statement.
type Outcome struct {
	Reqline  string
	Envelope *executor.Envelope
}

func (o *Outcome) Failed() bool {
	return o.Envelope == nil || o.Envelope.Failed()
}

// Message is the failure message, or "" for a success.
func (o *Outcome) Message() string {
	if o.Envelope == nil {
		return executor.FallbackMessage
	}
	return o.Envelope.Message
}

type Formatter interface {
	FormatOutcome(o *Outcome)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write everything at the end.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Options shared by NewFormatter
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts Options) (Formatter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch name {
	case FormatConsole, "":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)), nil
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case FormatTAP:
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case FormatJUnit:
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", name, Formats)
	}
}
