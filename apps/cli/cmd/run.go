package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/capture"
	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/vars"
	"github.com/abdul-hamid-achik/reqline/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	runFileFlag    string
	runOutputFlag  string
	runSelectFlag  string
	runWatchFlag   bool
	runHistoryFlag bool
	runVerboseFlag bool
	runCaptureFlag []string
)

var runCmd = &cobra.Command{
	Use:   "run [statement|-]",
	Short: "Execute reqline statements",
	Long: `Execute reqline statements and print the result envelope.

A statement is given as the only argument, read from stdin with "-", or read
from a file with one statement per line (blank lines and # comments are
skipped).

Examples:
  reqline run 'HTTP GET | URL https://dummyjson.com/quotes/3 | QUERY {"refid": 1920933}'
  reqline run 'HTTP GET | URL https://example.com' -o json
  reqline run --file smoke.reqline -o junit > report.xml
  reqline run 'HTTP GET | URL https://dummyjson.com/users/1' --select body.firstName
  reqline run --file requests.reqline --watch
  reqline run 'HTTP GET | URL {{host}}/users' --var host=https://dummyjson.com
  reqline run --file flow.reqline --capture post_id=body.id`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&runFileFlag, "file", "f", "", "Read statements from a file, one per line")
	runCmd.Flags().StringVarP(&runOutputFlag, "output", "o", getEnvString("REQLINE_OUTPUT", output.FormatConsole), "Output format: console, json, tap, junit (env: REQLINE_OUTPUT)")
	runCmd.Flags().StringVarP(&runSelectFlag, "select", "s", "", "Print only the selected value, e.g. status or body.data.0.id")
	runCmd.Flags().BoolVarP(&runWatchFlag, "watch", "w", false, "Watch --file for changes and re-run")
	runCmd.Flags().BoolVar(&runHistoryFlag, "history", getEnvBool("REQLINE_HISTORY", false), "Record every execution in the history database (env: REQLINE_HISTORY)")
	runCmd.Flags().BoolVarP(&runVerboseFlag, "verbose", "v", false, "Show request sections in console output")
	runCmd.Flags().StringArrayVar(&runCaptureFlag, "capture", nil, "Store a selected value for later statements, NAME=selector (repeatable)")
}

func runCommand(cmd *cobra.Command, args []string) error {
	if runWatchFlag && runFileFlag == "" {
		return exitWith(ExitUsageError, fmt.Errorf("--watch requires --file"))
	}
	if runSelectFlag != "" {
		if _, err := capture.ParseSelector(runSelectFlag); err != nil {
			return exitWith(ExitUsageError, err)
		}
	}

	captures, err := parseCaptures(runCaptureFlag)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	statements, err := collectStatements(args, runFileFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}

	// Fail fast on an unknown format before anything is sent.
	if _, err := newRunFormatter(cmd.OutOrStdout()); err != nil {
		return exitWith(ExitUsageError, err)
	}

	var opts []executor.ServiceOption
	if runHistoryFlag || appConfig.GetHistoryEnabled() {
		store, err := openHistory(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, executor.WithRecorder(store))
	}
	svc := newService(appConfig, opts...)

	resolver, err := newResolver(appConfig)
	if err != nil {
		return err
	}
	p := &pipeline{svc: svc, resolver: resolver, captures: captures}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := p.run(ctx, cmd.OutOrStdout(), statements)
	if !runWatchFlag {
		if code != ExitSuccess {
			return exitWith(code, nil)
		}
		return nil
	}

	return watchAndRun(ctx, cmd.OutOrStdout(), p, runFileFlag)
}

func newRunFormatter(w io.Writer) (output.Formatter, error) {
	return output.NewFormatter(runOutputFlag, output.Options{
		Writer:  w,
		Verbose: runVerboseFlag,
		NoColor: appConfig.GetNoColor(),
	})
}

// captureSpec stores the value selected from a successful result under Name.
type captureSpec struct {
	Name     string
	Selector string
}

func parseCaptures(pairs []string) ([]captureSpec, error) {
	specs := make([]captureSpec, 0, len(pairs))
	for _, pair := range pairs {
		name, selector, ok := strings.Cut(pair, "=")
		if !ok || name == "" || selector == "" {
			return nil, fmt.Errorf("invalid capture %q, expected NAME=selector", pair)
		}
		if _, err := capture.ParseSelector(selector); err != nil {
			return nil, err
		}
		specs = append(specs, captureSpec{Name: name, Selector: selector})
	}
	return specs, nil
}

// pipeline runs statements in order, feeding captured values into the
// placeholders of the statements that follow.
type pipeline struct {
	svc      *executor.Service
	resolver *vars.Resolver
	captures []captureSpec
}

func (p *pipeline) capture(result *executor.Result) {
	for _, spec := range p.captures {
		value, err := capture.Select(result, spec.Selector)
		if err != nil {
			logger.WithError(err).WithField("capture", spec.Name).Debug("capture not available")
			continue
		}
		p.resolver.SetCapture(spec.Name, capture.Format(value))
	}
}

// run processes every statement in order and returns the most severe exit
// code among them.
func (p *pipeline) run(ctx context.Context, w io.Writer, statements []string) int {
	formatter, err := newRunFormatter(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitUsageError
	}

	start := time.Now()
	worst := ExitSuccess
	for _, stmt := range statements {
		if ctx.Err() != nil {
			break
		}

		resolved, err := resolveStatement(p.resolver, stmt)
		if err != nil {
			formatter.FormatError(err)
			worst = max(worst, ExitParseError)
			continue
		}

		env := p.svc.Process(ctx, map[string]any{"reqline": resolved})
		code := envelopeExitCode(env)
		if !env.Failed() {
			p.capture(env.Result)
		}

		if runSelectFlag != "" && !env.Failed() {
			value, err := capture.Select(env.Result, runSelectFlag)
			if err != nil {
				formatter.FormatError(err)
				code = ExitFailure
			} else {
				fmt.Fprintln(w, capture.Format(value))
			}
		} else {
			formatter.FormatOutcome(&output.Outcome{Reqline: stmt, Envelope: env})
		}

		logger.WithFields(logrus.Fields{
			"reqline": stmt,
			"failed":  env.Failed(),
		}).Debug("statement processed")

		if code > worst {
			worst = code
		}
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			logger.WithError(err).Error("failed to flush output")
		}
	}
	return worst
}

// watchAndRun re-runs the statements in file whenever it is written, until
// ctx is cancelled.
func watchAndRun(ctx context.Context, w io.Writer, p *pipeline, file string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}
	target := filepath.Clean(file)

	fmt.Fprintf(w, "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", file)

	rerun := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			fmt.Fprintf(w, "\nFile changed: %s\nRe-running...\n\n", file)
			statements, err := readStatementsFile(file)
			if err != nil {
				logger.WithError(err).Error("failed to re-read statements")
				continue
			}
			p.run(ctx, w, statements)
			fmt.Fprintf(w, "\nWatching %s for changes... (press Ctrl+C to stop)\n", file)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}
