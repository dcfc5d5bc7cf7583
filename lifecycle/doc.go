// Package lifecycle coordinates startup and shutdown of the agent's
// long-running subsystems.
//
// A Manager owns an ordered list of subsystems. Startup brings them up
// in registration order and fails fast, tearing down anything already
// started. Shutdown stops them in reverse order, collecting every error
// rather than stopping at the first. Both transitions are idempotent.
package lifecycle
