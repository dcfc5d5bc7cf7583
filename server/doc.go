// Package server exposes the agent's HTTP surface: the identity and
// health endpoints, the metrics snapshots, and the analysis routes.
//
// Handlers translate analysis error kinds into status codes: validation
// failures are client errors, collaborator and aggregation failures are
// server errors. Background monitoring is read, never started, here.
package server
