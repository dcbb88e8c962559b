// Package config loads tool configuration from the environment, the way
// the surrounding CI invokes htpack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/DarrenMaxi/HTPSource/internal/logging"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

// Config holds all configuration for one htpack invocation. Values come
// from environment variables, optionally seeded by a .htpack.env file in
// the working directory.
type Config struct {
	RepoRoot     string `mapstructure:"REPO_ROOT"`
	RepoFullName string `mapstructure:"REPO_FULL_NAME"`
	Branch       string `mapstructure:"REPO_BRANCH"`
	ScratchDir   string `mapstructure:"SCRATCH_DIR"`
	LedgerPath   string `mapstructure:"LEDGER_PATH"`

	// Filled via typed getters; env values arrive as strings.
	KeepScratch bool          `mapstructure:"-"`
	LockTimeout time.Duration `mapstructure:"-"`
}

var envBindings = map[string]string{
	"repo_root":      "REPO_ROOT",
	"repo_full_name": "REPO_FULL_NAME",
	"repo_branch":    "REPO_BRANCH",
	"scratch_dir":    "SCRATCH_DIR",
	"ledger_path":    "LEDGER_PATH",
	"keep_scratch":   "KEEP_SCRATCH",
	"lock_timeout":   "LOCK_TIMEOUT",
}

// Load reads configuration from .htpack.env and the environment.
func Load() (*Config, error) {
	viper.SetConfigName(".htpack")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			logging.Warn("Unable to bind environment variable",
				logging.String("var", env), logging.Err(err))
		}
	}

	viper.SetDefault("repo_root", ".")
	viper.SetDefault("repo_full_name", "DarrenMaxi/HTPSource")
	viper.SetDefault("repo_branch", "main")
	viper.SetDefault("lock_timeout", "2m")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.KeepScratch = viper.GetBool("keep_scratch")
	cfg.LockTimeout = viper.GetDuration("lock_timeout")
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 2 * time.Minute
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = filepath.Join(cfg.RepoRoot, ".htpack", "ledger.db")
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	info, err := os.Stat(c.RepoRoot)
	if err != nil {
		return fmt.Errorf("repository root %s: %w", c.RepoRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository root %s is not a directory", c.RepoRoot)
	}
	return nil
}

// UpdateInfoURL returns the raw URL where clients poll a patch's
// info.json once the change lands on the published branch.
func (c *Config) UpdateInfoURL(id patch.Identity) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/info.json",
		c.RepoFullName, c.Branch, id.Dir())
}

// DownloadURL returns the raw URL of a package file inside the
// repository.
func (c *Config) DownloadURL(id patch.Identity, fileName string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s",
		c.RepoFullName, c.Branch, id.Dir(), fileName)
}
