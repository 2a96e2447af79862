// Package config materializes relaymon's settings from viper into a typed
// struct with defaults and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor flags say otherwise.
const (
	DefaultControlAddress     = "127.0.0.1:9051"
	DefaultResourceInterval   = time.Second
	DefaultConnectionInterval = 5 * time.Second
)

// Settings is everything the monitor needs at startup.
type Settings struct {
	// ControlAddress is the host:port of the relay's control port.
	ControlAddress string

	// PasswordFile optionally points at a file holding the control
	// password. Empty means authenticate with no password.
	PasswordFile string

	// ResourceInterval is the CPU/memory sampling cadence.
	ResourceInterval time.Duration

	// ConnectionInterval is the connection-polling cadence.
	ConnectionInterval time.Duration

	// LogFile receives JSON log records. Empty disables file logging;
	// records still reach the in-memory log panel buffer.
	LogFile string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads settings from viper, applying defaults and validating.
func Load() (Settings, error) {
	s := Settings{
		ControlAddress:     viper.GetString("control.address"),
		PasswordFile:       viper.GetString("control.password_file"),
		ResourceInterval:   viper.GetDuration("sampling.resource_interval"),
		ConnectionInterval: viper.GetDuration("sampling.connection_interval"),
		LogFile:            viper.GetString("logging.file"),
		LogLevel:           viper.GetString("logging.level"),
	}

	if s.ControlAddress == "" {
		s.ControlAddress = DefaultControlAddress
	}
	if s.ResourceInterval == 0 {
		s.ResourceInterval = DefaultResourceInterval
	}
	if s.ConnectionInterval == 0 {
		s.ConnectionInterval = DefaultConnectionInterval
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}

	if s.ResourceInterval < 0 || s.ConnectionInterval < 0 {
		return Settings{}, fmt.Errorf("sampling intervals must be positive")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return Settings{}, fmt.Errorf("unrecognized log level %q", s.LogLevel)
	}

	return s, nil
}

// ReadPassword loads the control password from PasswordFile, trimmed of
// trailing whitespace. Returns "" when no password file is configured.
func (s Settings) ReadPassword() (string, error) {
	if s.PasswordFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(s.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("reading control password: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
