package runner

import (
	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/logging"
)

// Interceptor is a function that wraps command execution.
type Interceptor func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error

// WithLogging logs command execution at debug level.
func WithLogging() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		logging.Debug("CLI command", logging.String("cmd", cmd.Name()))
		err := next()
		if err != nil {
			logging.Debug("CLI error", logging.String("cmd", cmd.Name()), logging.Err(err))
		}
		return err
	}
}

// RequireConfig ensures the configuration loaded before the handler
// runs.
func RequireConfig() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		if ctx.ConfigErr != nil {
			return ctx.ConfigErr
		}
		if ctx.Config == nil {
			return ErrConfigNotLoaded
		}
		return next()
	}
}

// RequireLedger ensures the run ledger opened before the handler runs.
// Implicitly requires config.
func RequireLedger() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		if ctx.ConfigErr != nil {
			return ctx.ConfigErr
		}
		if ctx.Config == nil {
			return ErrConfigNotLoaded
		}
		if ctx.Ledger() == nil {
			return ErrLedgerUnavailable
		}
		return next()
	}
}
