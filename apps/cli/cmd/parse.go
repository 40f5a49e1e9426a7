package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/reqline/packages/core/parser"
	"github.com/abdul-hamid-achik/reqline/packages/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	parseFileFlag   string
	parseOutputFlag string
)

var parseCmd = &cobra.Command{
	Use:   "parse [statement|-]",
	Short: "Check reqline statements without executing them",
	Long: `Parse reqline statements and print the resolved request, or the first
grammar violation of each statement.

Examples:
  reqline parse 'HTTP GET | URL https://example.com | QUERY {"page": 1}'
  reqline parse --file requests.reqline
  echo 'HTTP POST | URL https://example.com' | reqline parse - -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseCommand,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFileFlag, "file", "f", "", "Read statements from a file, one per line")
	parseCmd.Flags().StringVarP(&parseOutputFlag, "output", "o", getEnvString("REQLINE_OUTPUT", output.FormatConsole), "Output format: console, json (env: REQLINE_OUTPUT)")
}

// requestFormatter is implemented by the formats that can print a parsed request.
type requestFormatter interface {
	FormatRequest(req *parser.Request)
	FormatError(err error)
}

func parseCommand(cmd *cobra.Command, args []string) error {
	statements, err := collectStatements(args, parseFileFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}

	f, err := output.NewFormatter(parseOutputFlag, output.Options{
		Writer:  cmd.OutOrStdout(),
		NoColor: appConfig.GetNoColor(),
	})
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	formatter, ok := f.(requestFormatter)
	if !ok {
		return exitWith(ExitUsageError, fmt.Errorf("output format %q cannot print parsed requests", parseOutputFlag))
	}

	resolver, err := newResolver(appConfig)
	if err != nil {
		return err
	}

	failed := 0
	for _, stmt := range statements {
		resolved, err := resolveStatement(resolver, stmt)
		if err != nil {
			failed++
			formatter.FormatError(err)
			continue
		}

		req, err := parser.Parse(strings.TrimSpace(resolved))
		if err != nil {
			failed++
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				logger.WithFields(logrus.Fields{
					"kind":    perr.Kind,
					"segment": perr.Segment,
				}).Debug("statement rejected")
			}
			formatter.FormatError(err)
			continue
		}
		formatter.FormatRequest(req)
	}

	if failed > 0 {
		return exitWith(ExitParseError, nil)
	}
	return nil
}
