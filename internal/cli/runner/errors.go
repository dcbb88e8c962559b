// Package runner provides an interceptor-based execution framework for
// CLI commands, so every command gets the same logging and config gating
// without repeating it in each handler.
package runner

import "errors"

// Standard errors returned by interceptors
var (
	// ErrConfigNotLoaded is returned when a command needs configuration
	// but none could be loaded.
	ErrConfigNotLoaded = errors.New("configuration not loaded")

	// ErrLedgerUnavailable is returned when a command needs the run
	// ledger but it could not be opened.
	ErrLedgerUnavailable = errors.New("run ledger unavailable")
)
