package lifecycle

import "errors"

var (
	// ErrAlreadyRunning is returned by Startup when the manager is
	// mid-transition.
	ErrAlreadyRunning = errors.New("lifecycle: already running")

	// ErrNotRunning is returned by Shutdown when the manager is
	// mid-transition.
	ErrNotRunning = errors.New("lifecycle: not running")
)
