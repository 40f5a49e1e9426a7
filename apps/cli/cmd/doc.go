// Package cmd implements the reqline CLI commands using Cobra.
//
// Available commands:
//   - parse: check statements without executing them
//   - run: execute statements and print the result envelope
//   - serve: expose the reqline endpoint over HTTP
//   - bench: fire one statement repeatedly and report latency
//   - history: list, show or clear recorded executions
//   - import: convert curl commands into statements
//   - init: write a starter config and statements file
//   - completion: generate shell completion scripts
//   - version: show version information
//
// Flags take their defaults from REQLINE_* environment variables and
// override values from the config file. Statements may contain {{name}}
// placeholders, filled from config variables, --env-file and --var.
package cmd
