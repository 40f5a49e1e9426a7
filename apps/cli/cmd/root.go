package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/config"
	"github.com/abdul-hamid-achik/reqline/packages/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag            string
	logLevelFlag          string
	logFormatFlag         string
	noColorFlag           bool
	timeoutFlag           string
	proxyFlag             string
	insecureFlag          bool
	acceptAllStatusesFlag bool
	historyDBFlag         string
	varFlags              []string
	envFileFlag           string

	appConfig *config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reqline",
	Short: "One line, one HTTP request.",
	Long: `reqline turns a single pipe-delimited statement into an HTTP call.

  HTTP GET | URL https://api.example.com/users | QUERY {"page": 1}

Statements can be parsed, executed, served over HTTP or benchmarked.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", getEnvString("REQLINE_CONFIG", ""), "Path to config file (env: REQLINE_CONFIG)")
	pf.StringVar(&logLevelFlag, "log-level", getEnvString("REQLINE_LOG_LEVEL", config.DefaultLogLevel), "Log level: debug, info, warn, error (env: REQLINE_LOG_LEVEL)")
	pf.StringVar(&logFormatFlag, "log-format", getEnvString("REQLINE_LOG_FORMAT", config.DefaultLogFormat), "Log format: text, json (env: REQLINE_LOG_FORMAT)")
	pf.BoolVar(&noColorFlag, "no-color", getEnvBool("REQLINE_NO_COLOR", false), "Disable colored output (env: REQLINE_NO_COLOR)")
	pf.StringVar(&timeoutFlag, "timeout", getEnvString("REQLINE_TIMEOUT", "30s"), "Request timeout (e.g., 30s, 1m) (env: REQLINE_TIMEOUT)")
	pf.StringVar(&proxyFlag, "proxy", getEnvString("REQLINE_PROXY", ""), "Proxy URL for HTTP requests (env: REQLINE_PROXY)")
	pf.BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("REQLINE_INSECURE", false), "Disable SSL certificate validation (env: REQLINE_INSECURE)")
	pf.BoolVar(&acceptAllStatusesFlag, "accept-all-statuses", getEnvBool("REQLINE_ACCEPT_ALL_STATUSES", false), "Treat non-2xx responses as results instead of errors (env: REQLINE_ACCEPT_ALL_STATUSES)")
	pf.StringVar(&historyDBFlag, "history-db", getEnvString("REQLINE_HISTORY_DB", ""), "Path to the history database (env: REQLINE_HISTORY_DB)")
	pf.StringArrayVarP(&varFlags, "var", "V", nil, "Set a {{name}} placeholder value, NAME=value (repeatable)")
	pf.StringVar(&envFileFlag, "env-file", getEnvString("REQLINE_ENV_FILE", ""), "Load {{name}} placeholder values from a .env file (env: REQLINE_ENV_FILE)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitWith(ExitUsageError, err)
	})

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return exitWith(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	cfg = cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return exitWith(ExitConfigError, err)
	}

	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	appConfig = cfg
	logger = l
	return nil
}

// overridden reports whether a flag was given on the command line or through
// its environment variable.
func overridden(cmd *cobra.Command, flag, envKey string) bool {
	return cmd.Flags().Changed(flag) || os.Getenv(envKey) != ""
}

func flagOverrides(cmd *cobra.Command) (*config.Config, error) {
	o := &config.Config{}

	if overridden(cmd, "timeout", "REQLINE_TIMEOUT") {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w", timeoutFlag, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got %s", timeoutFlag)
		}
		o.Timeout = int(d.Milliseconds())
	}
	if overridden(cmd, "proxy", "REQLINE_PROXY") {
		o.Proxy = proxyFlag
	}
	if overridden(cmd, "insecure", "REQLINE_INSECURE") {
		o.ValidateSSL = config.BoolPtr(!insecureFlag)
	}
	if overridden(cmd, "accept-all-statuses", "REQLINE_ACCEPT_ALL_STATUSES") {
		o.AcceptAllStatuses = config.BoolPtr(acceptAllStatusesFlag)
	}
	if overridden(cmd, "history-db", "REQLINE_HISTORY_DB") {
		o.History.Path = historyDBFlag
	}
	if overridden(cmd, "log-level", "REQLINE_LOG_LEVEL") {
		o.Log.Level = logLevelFlag
	}
	if overridden(cmd, "log-format", "REQLINE_LOG_FORMAT") {
		o.Log.Format = logFormatFlag
	}
	if overridden(cmd, "no-color", "REQLINE_NO_COLOR") {
		o.NoColor = config.BoolPtr(noColorFlag)
	}

	return o, nil
}
