// Package executor runs parsed reqline requests and assembles their results.
//
// Executor issues exactly one call through an injected Sender and records
// when it started and stopped. Service sits in front of it: it validates the
// input envelope, parses the statement, executes it and folds every outcome,
// including panics, into an Envelope.
package executor
