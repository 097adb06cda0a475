// Package cli implements the remotask command line interface. Commands
// operate on the local ledger directly through the core façade; serve
// runs the daemon with the HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remotask-app/remotask/internal/app/core"
	"github.com/remotask-app/remotask/internal/daemon"
)

var (
	configPath string
	useMemory  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.remotask/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "Use the volatile in-memory ledger (testing)")
}

var rootCmd = &cobra.Command{
	Use:   "remotask",
	Short: "Local-first earnings ledger for REMO-TASK",
	Long: `remotask keeps your task earnings, referrals and withdrawals in a
local ledger. Referrals mature on a delay, and withdrawals settle on the
1st and 15th of each month.

Run 'remotask serve' to start the daemon with the HTTP API, or use the
subcommands to work with the ledger directly.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config honoring the --memory override.
func loadConfig() (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if useMemory {
		cfg.Storage.InMemory = true
	}
	return cfg, nil
}

// withCore builds a core from config, runs fn, and closes the store.
func withCore(fn func(*core.Core) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, closeFn, err := daemon.BuildCore(cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(c)
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}
