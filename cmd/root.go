// Package cmd wires the CLI: flags and config resolution, control-port
// connection, tracker lifecycle, and the TUI program.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relaymon/relaymon/internal/pkg/config"
	"github.com/relaymon/relaymon/internal/pkg/control"
	"github.com/relaymon/relaymon/internal/pkg/logger"
	"github.com/relaymon/relaymon/internal/pkg/signals"
	"github.com/relaymon/relaymon/internal/pkg/tracker"
	"github.com/relaymon/relaymon/internal/pkg/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "relaymon",
	Short: "terminal status monitor for a relay daemon",
	Long: `relaymon connects to a running relay daemon's control port and shows
its resource usage, connections, and log activity in a terminal UI.`,
	RunE: runMonitor,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.relaymon.yaml)")

	rootCmd.Flags().String("connect", "", "control port address (host:port)")
	rootCmd.Flags().Duration("interval", 0, "resource sampling interval")
	rootCmd.Flags().String("password-file", "", "file holding the control password")
	rootCmd.Flags().String("log-file", "", "file receiving JSON log records")

	_ = viper.BindPFlag("control.address", rootCmd.Flags().Lookup("connect"))
	_ = viper.BindPFlag("sampling.resource_interval", rootCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("control.password_file", rootCmd.Flags().Lookup("password-file"))
	_ = viper.BindPFlag("logging.file", rootCmd.Flags().Lookup("log-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".relaymon")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	if err := setupLogging(settings); err != nil {
		return err
	}

	client, err := control.Dial(settings.ControlAddress)
	if err != nil {
		return err
	}
	defer client.Close()

	password, err := settings.ReadPassword()
	if err != nil {
		return err
	}
	if err := client.Authenticate(password); err != nil {
		return err
	}

	resources := tracker.NewResourceTracker(settings.ResourceInterval, client.PID)
	connections := tracker.NewConnectionTracker(settings.ConnectionInterval, client.PID)

	resources.Start()
	defer resources.Stop()
	connections.Start()
	defer connections.Stop()

	program := tea.NewProgram(tui.New(tui.Deps{
		Relay:       relayInfo(client, settings),
		Resources:   resources,
		Connections: connections,
		Console:     logger.Console(),
	}), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleanup := signals.SetupHandler(ctx, program.Quit)
	defer cleanup()

	logger.Info("Monitor started", "control", settings.ControlAddress)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// relayInfo resolves the relay's identity once at startup. Failed queries
// degrade to placeholders; the monitor is still useful without them.
func relayInfo(client *control.Client, settings config.Settings) tui.RelayInfo {
	info := tui.RelayInfo{
		Nickname:       "unnamed",
		Version:        "",
		ControlAddress: settings.ControlAddress,
	}

	if nickname, err := client.GetConf("Nickname"); err == nil && nickname != "" {
		info.Nickname = nickname
	}
	if version, err := client.Version(); err == nil {
		info.Version = version
	}
	if uptime, err := client.Uptime(); err == nil {
		info.StartedAt = time.Now().Add(-uptime)
	}
	return info
}

func setupLogging(settings config.Settings) error {
	var w io.Writer = io.Discard
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logger.Initialize(w, level)
	return nil
}
