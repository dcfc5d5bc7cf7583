// Package readiness implements the production validation harness: named
// pass/fail checks run in order by an isolating runner, aggregated into
// a report that can be printed and persisted.
//
// The runner is the isolation boundary. A check that returns an error
// or panics produces a failed CheckResult; it never aborts the run, so
// one report always reflects the full environment in a single pass.
package readiness
