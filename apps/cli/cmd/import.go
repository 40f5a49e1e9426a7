package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/reqline/packages/import/curl"
	"github.com/spf13/cobra"
)

var importOutputFlag string

var importCmd = &cobra.Command{
	Use:   "import <format> <source>",
	Short: "Convert requests from other tools into reqline statements",
	Long: `Convert requests written for other tools into reqline statements.

Supported formats:
  curl - curl command lines`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl [command|-]",
	Short: "Convert curl commands",
	Long: `Convert curl command lines into reqline statements.

A single command is given as the argument, or many are read from --file or
stdin ("-"), one per line with backslash continuations. Flags reqline has no
equivalent for, such as -k or -L, are reported on stderr.

Examples:
  reqline import curl "curl -X POST https://api.example.com/users -d '{\"name\":\"John\"}'"
  reqline import curl --file commands.sh -o requests.reqline
  pbpaste | reqline import curl -`,
	Args: cobra.MaximumNArgs(1),
	RunE: importCurlCommand,
}

var importFileFlag string

func init() {
	importCurlCmd.Flags().StringVarP(&importFileFlag, "file", "f", "", "Read curl commands from a file")
	importCurlCmd.Flags().StringVarP(&importOutputFlag, "output", "o", "", "Output file path (default: stdout)")

	importCmd.AddCommand(importCurlCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	var (
		conversions []*curl.Conversion
		err         error
	)

	switch {
	case importFileFlag != "" && len(args) > 0:
		return exitWith(ExitUsageError, fmt.Errorf("pass either a command or --file, not both"))
	case importFileFlag != "":
		f, openErr := os.Open(importFileFlag)
		if openErr != nil {
			return exitWith(ExitUsageError, openErr)
		}
		defer f.Close()
		conversions, err = curl.ConvertAll(f)
	case len(args) == 1 && args[0] == "-":
		conversions, err = curl.ConvertAll(cmd.InOrStdin())
	case len(args) == 1:
		var conv *curl.Conversion
		conv, err = curl.Convert(args[0])
		if conv != nil {
			conversions = append(conversions, conv)
		}
	default:
		return exitWith(ExitUsageError, fmt.Errorf("a curl command or --file is required"))
	}
	if err != nil {
		return exitWith(ExitParseError, fmt.Errorf("failed to convert curl command: %w", err))
	}

	var sb strings.Builder
	for _, conv := range conversions {
		sb.WriteString(conv.Statement)
		sb.WriteString("\n")
		if len(conv.Ignored) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "ignored for %q: %s\n", conv.Statement, strings.Join(conv.Ignored, " "))
		}
	}

	if importOutputFlag == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), sb.String())
		return err
	}

	if dir := filepath.Dir(importOutputFlag); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(importOutputFlag, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d command(s) to %s\n", len(conversions), importOutputFlag)
	return nil
}
