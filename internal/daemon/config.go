// Package daemon wires configuration and the long-running remotask process.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration, loaded from
// ~/.remotask/config.toml (or a path given on the command line).
type Config struct {
	API        APIConfig        `toml:"api"`
	Storage    StorageConfig    `toml:"storage"`
	Withdrawal WithdrawalConfig `toml:"withdrawal"`
	Referral   ReferralConfig   `toml:"referral"`
	Payments   PaymentsConfig   `toml:"payments"`
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

// StorageConfig configures the ledger store.
type StorageConfig struct {
	// Dir is the data directory holding the sqlite ledger.
	Dir string `toml:"dir"`
	// InMemory switches to the volatile in-memory store (testing only —
	// all state is lost on exit).
	InMemory bool `toml:"in_memory"`
}

// WithdrawalConfig configures the settlement engine.
type WithdrawalConfig struct {
	// Minimum is the smallest withdrawable amount in dollars.
	Minimum float64 `toml:"minimum"`
}

// ReferralConfig configures the referral engine.
type ReferralConfig struct {
	// DelayHours is how long matured effects stay invisible.
	DelayHours int `toml:"delay_hours"`
	// PollInterval is the background maturation tick ("5s"); empty
	// disables the ticker and leaves maturation purely load-triggered.
	PollInterval string `toml:"poll_interval"`
	// ActivationThreshold is the remote-config "activate account" value
	// consumed by the share gate.
	ActivationThreshold float64 `toml:"activation_threshold"`
}

// PaymentsConfig configures the simulated payment gateway.
type PaymentsConfig struct {
	// ActivationFee in KES charged to activate an account.
	ActivationFee float64 `toml:"activation_fee"`
	// Latency is the artificial delay per gateway call ("1s").
	Latency string `toml:"latency"`
	// PollInterval is the wait between status polls ("5s").
	PollInterval string `toml:"poll_interval"`
	// MaxAttempts caps the status poll loop.
	MaxAttempts int `toml:"max_attempts"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:          "127.0.0.1",
			Port:          8246,
			EnableMetrics: true,
		},
		Storage: StorageConfig{
			Dir: defaultDataDir(),
		},
		Withdrawal: WithdrawalConfig{
			Minimum: 150,
		},
		Referral: ReferralConfig{
			DelayHours:          2,
			PollInterval:        "5s",
			ActivationThreshold: 15,
		},
		Payments: PaymentsConfig{
			ActivationFee: 100,
			Latency:       "1s",
			PollInterval:  "5s",
			MaxAttempts:   12,
		},
	}
}

// LoadConfig reads the TOML config at path, layered over defaults.
// A missing file is not an error — defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ReferralDelay returns the maturation delay as a duration.
func (c Config) ReferralDelay() time.Duration {
	if c.Referral.DelayHours <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Referral.DelayHours) * time.Hour
}

// MaturationPoll returns the background poll interval, or 0 when the
// ticker is disabled.
func (c Config) MaturationPoll() time.Duration {
	return parseDuration(c.Referral.PollInterval, 0)
}

// GatewayLatency returns the simulated per-call gateway delay.
func (c Config) GatewayLatency() time.Duration {
	return parseDuration(c.Payments.Latency, time.Second)
}

// GatewayPoll returns the wait between payment status polls.
func (c Config) GatewayPoll() time.Duration {
	return parseDuration(c.Payments.PollInterval, 5*time.Second)
}

// Addr returns the host:port the API listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// parseDuration parses a duration string, falling back on empty or
// malformed input.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func configDir() string {
	if dir := os.Getenv("REMOTASK_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".remotask"
	}
	return filepath.Join(home, ".remotask")
}

func defaultDataDir() string {
	return filepath.Join(configDir(), "data")
}
