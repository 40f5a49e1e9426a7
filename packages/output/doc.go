// Package output renders reqline outcomes, parsed requests and history
// entries.
//
// Supported output formats:
//   - console: colored terminal output
//   - json: the result envelope exactly as the HTTP shell returns it
//   - tap: Test Anything Protocol, one test point per statement
//   - junit: JUnit XML for CI integration
//
// Every formatter implements Formatter. TAP and JUnit accumulate outcomes and
// implement Flushable.
package output
