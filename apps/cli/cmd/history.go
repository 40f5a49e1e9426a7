package cmd

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/reqline/packages/history"
	"github.com/abdul-hamid-achik/reqline/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyLimitFlag  int
	historyOutputFlag string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded executions",
	Long: `List the most recent statements recorded with run --history or
serve --history, newest first.

Examples:
  reqline history
  reqline history --limit 50 -o json
  reqline history show 3f1c2a9e-6d0b-4c1e-9a57-0f3b8f8e2d41
  reqline history clear`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded execution",
	Args:  cobra.NoArgs,
	RunE:  historyClearCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded execution",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", history.DefaultLimit, "Number of entries to show")
	historyCmd.PersistentFlags().StringVarP(&historyOutputFlag, "output", "o", getEnvString("REQLINE_OUTPUT", output.FormatConsole), "Output format: console, json (env: REQLINE_OUTPUT)")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// historyFormatter is implemented by the formats that can print history.
type historyFormatter interface {
	FormatHistory(entries []*history.Entry)
}

func newHistoryFormatter(cmd *cobra.Command) (historyFormatter, error) {
	f, err := output.NewFormatter(historyOutputFlag, output.Options{
		Writer:  cmd.OutOrStdout(),
		NoColor: appConfig.GetNoColor(),
	})
	if err != nil {
		return nil, exitWith(ExitUsageError, err)
	}
	formatter, ok := f.(historyFormatter)
	if !ok {
		return nil, exitWith(ExitUsageError, fmt.Errorf("output format %q cannot print history", historyOutputFlag))
	}
	return formatter, nil
}

func historyCommand(cmd *cobra.Command, args []string) error {
	formatter, err := newHistoryFormatter(cmd)
	if err != nil {
		return err
	}

	store, err := openHistory(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	formatter.FormatHistory(entries)
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	formatter, err := newHistoryFormatter(cmd)
	if err != nil {
		return err
	}

	store, err := openHistory(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, sql.ErrNoRows) {
		return exitWith(ExitUsageError, fmt.Errorf("no history entry with id %s", args[0]))
	}
	if err != nil {
		return err
	}
	formatter.FormatHistory([]*history.Entry{entry})
	return nil
}

func historyClearCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries from %s\n", removed, historyPath(appConfig))
	return nil
}
