package runner

import (
	"sync"

	"github.com/DarrenMaxi/HTPSource/internal/config"
	"github.com/DarrenMaxi/HTPSource/internal/ingest"
	"github.com/DarrenMaxi/HTPSource/internal/ledger"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/store"
)

// CommandContext provides shared dependencies to command handlers.
// Dependencies are lazily initialized on first access to avoid
// unnecessary work.
type CommandContext struct {
	// Config is the loaded configuration (may be nil when loading
	// failed)
	Config *config.Config

	// ConfigErr is the error from loading config, if any
	ConfigErr error

	storeOnce  sync.Once
	st         *store.Store
	ledgerOnce sync.Once
	led        *ledger.Ledger
	pipeOnce   sync.Once
	pipe       *ingest.Pipeline
}

// NewContext creates a new CommandContext with the given config.
func NewContext(cfg *config.Config, cfgErr error) *CommandContext {
	return &CommandContext{
		Config:    cfg,
		ConfigErr: cfgErr,
	}
}

// HasConfig returns true if config is loaded successfully.
func (c *CommandContext) HasConfig() bool {
	return c.Config != nil && c.ConfigErr == nil
}

// Store returns the repository store, or nil without config.
func (c *CommandContext) Store() *store.Store {
	c.storeOnce.Do(func() {
		if c.Config != nil {
			c.st = store.New(c.Config.RepoRoot)
		}
	})
	return c.st
}

// Ledger returns the run ledger, opening it on first use. The ledger
// is advisory, so an open failure logs a warning and yields nil rather
// than failing the command.
func (c *CommandContext) Ledger() *ledger.Ledger {
	c.ledgerOnce.Do(func() {
		if c.Config == nil {
			return
		}
		led, err := ledger.Open(c.Config.LedgerPath)
		if err != nil {
			logging.Warn("Run ledger unavailable",
				logging.String("path", c.Config.LedgerPath), logging.Err(err))
			return
		}
		c.led = led
	})
	return c.led
}

// Pipeline returns the ingestion pipeline wired to this repository, or
// nil without config.
func (c *CommandContext) Pipeline() *ingest.Pipeline {
	c.pipeOnce.Do(func() {
		if c.Config != nil {
			c.pipe = ingest.New(c.Config, c.Store(), c.Ledger())
		}
	})
	return c.pipe
}
