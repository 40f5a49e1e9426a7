package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/reqline/packages/core/config"
	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/core/validator"
	"github.com/abdul-hamid-achik/reqline/packages/core/vars"
	"github.com/abdul-hamid-achik/reqline/packages/history"
	rhttp "github.com/abdul-hamid-achik/reqline/packages/http"
)

const maxStatementSize = 1 << 20

func newClient(cfg *config.Config) *rhttp.Client {
	opts := []rhttp.ClientOption{
		rhttp.WithTimeout(cfg.TimeoutDuration()),
		rhttp.WithFollowRedirects(cfg.GetFollowRedirects()),
		rhttp.WithMaxRedirects(cfg.MaxRedirects),
		rhttp.WithValidateSSL(cfg.GetValidateSSL()),
		rhttp.WithAcceptAllStatuses(cfg.GetAcceptAllStatuses()),
		rhttp.WithDefaultHeaders(cfg.Headers),
	}
	if cfg.Proxy != "" {
		opts = append(opts, rhttp.WithProxy(cfg.Proxy))
	}
	return rhttp.NewClient(opts...)
}

func newExecutor(cfg *config.Config) *executor.Executor {
	return executor.New(newClient(cfg))
}

func newService(cfg *config.Config, opts ...executor.ServiceOption) *executor.Service {
	opts = append([]executor.ServiceOption{executor.WithLogger(logger)}, opts...)
	return executor.NewService(validator.MustNew(), newExecutor(cfg), opts...)
}

func historyPath(cfg *config.Config) string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return history.DefaultPath()
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	store, err := history.Open(historyPath(cfg))
	if err != nil {
		return nil, exitWith(ExitConfigError, err)
	}
	return store, nil
}

// newResolver layers placeholder values: config variables, then the env
// file, then --var.
func newResolver(cfg *config.Config) (*vars.Resolver, error) {
	r := vars.NewResolver()
	r.SetVariables(cfg.Variables)

	if envFileFlag != "" {
		fileVars, err := vars.LoadDotEnv(envFileFlag)
		if err != nil {
			return nil, exitWith(ExitUsageError, err)
		}
		r.SetVariables(fileVars)
	}

	flagVars, err := vars.ParseAssignments(varFlags)
	if err != nil {
		return nil, exitWith(ExitUsageError, err)
	}
	r.SetVariables(flagVars)
	return r, nil
}

// resolveStatement substitutes placeholders in stmt. Unknown placeholders are
// logged and left in place.
func resolveStatement(r *vars.Resolver, stmt string) (string, error) {
	if !vars.HasPlaceholders(stmt) {
		return stmt, nil
	}
	res, err := r.Resolve(stmt)
	if err != nil {
		return "", err
	}
	for _, name := range res.Unresolved {
		logger.WithField("placeholder", name).Warn("unresolved placeholder")
	}
	return res.Text, nil
}

// readStatements returns every statement in r, one per line. Blank lines and
// lines starting with # are skipped. Lines are otherwise kept verbatim.
func readStatements(r io.Reader) ([]string, error) {
	var statements []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxStatementSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		statements = append(statements, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return statements, nil
}

func readStatementsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readStatements(f)
}

// collectStatements resolves the statements a command operates on: a single
// argument, "-" for stdin, or every line of file.
func collectStatements(args []string, file string, stdin io.Reader) ([]string, error) {
	var (
		statements []string
		err        error
	)

	switch {
	case file != "" && len(args) > 0:
		return nil, exitWith(ExitUsageError, fmt.Errorf("pass either a statement or --file, not both"))
	case file != "":
		statements, err = readStatementsFile(file)
	case len(args) == 1 && args[0] == "-":
		statements, err = readStatements(stdin)
	case len(args) == 1:
		statements = args
	default:
		return nil, exitWith(ExitUsageError, fmt.Errorf("a reqline statement or --file is required"))
	}

	if err != nil {
		return nil, exitWith(ExitUsageError, fmt.Errorf("failed to read statements: %w", err))
	}
	if len(statements) == 0 {
		return nil, exitWith(ExitUsageError, fmt.Errorf("no statements found"))
	}
	return statements, nil
}
