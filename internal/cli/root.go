// Package cli implements the htpack command set.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DarrenMaxi/HTPSource/internal/cli/runner"
	"github.com/DarrenMaxi/HTPSource/internal/config"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
)

var (
	// Version is set at build time
	Version = "0.3.0"

	// App state
	cfg    *config.Config
	cfgErr error

	// run builds the interceptor chains commands execute under.
	run = runner.NewBuilder(func() (*config.Config, error) { return cfg, cfgErr })
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "htpack",
	Short: "Translation patch packaging and catalog tooling",
	Long: `htpack turns community-submitted translation patches into versioned
.htp packages and maintains the repository catalog around them: each
run validates the submitted override archive, builds a hash-verified
file manifest, writes the distributable package, and merges the new
version into the patch's info.json and the global index.json.`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func initLogging() {
	lcfg := logging.DefaultConfig()
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		lcfg.Level = lvl
	}
	lcfg.JSON = os.Getenv("LOG_JSON") == "true"
	_ = logging.Init(lcfg)
}

func initConfig() {
	cfg, cfgErr = config.Load()
}

// Config returns the loaded config (may be nil)
func Config() *config.Config {
	return cfg
}
