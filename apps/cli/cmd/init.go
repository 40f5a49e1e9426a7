package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/reqline/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a reqline config and an example statements file",
	Long: `Initialize reqline in the current directory.

This creates:
  - .reqline.yaml     - configuration with every default spelled out
  - example.reqline   - statements to try with "reqline run --file"

Examples:
  reqline init
  reqline init --force`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              initCommand,
}

const exampleStatements = `# One reqline statement per line. Blank lines and comments are skipped.
HTTP GET | URL https://dummyjson.com/quotes/3 | QUERY {"refid": 1920933}
HTTP GET | URL https://dummyjson.com/users | QUERY {"limit": 2, "select": "firstName"}
HTTP POST | URL https://dummyjson.com/posts/add | HEADERS {"Content-Type": "application/json"} | BODY {"title": "hello", "userId": 5}
`

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	exampleFile := filepath.Join(cwd, "example.reqline")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleStatements), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nTry it:\n  reqline run --file example.reqline\n")
	return nil
}
