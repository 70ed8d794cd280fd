// arena is a two-player networked Pong server with terminal clients.
//
// Usage:
//
//	arena serve              - Start the WebSocket and SSH servers
//	arena play               - Play against another client over WebSocket
//	arena watch              - Follow every room through the NATS mirror
//	arena config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search ./arena.yaml, ~/.arena/arena.yaml)
//	--seed <value>      - Seed for room randomness (0 = time-based)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pong-arena/internal/config"
	"github.com/vovakirdan/pong-arena/internal/logging"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLogLevel string
)

var (
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Pong Arena - authoritative two-player Pong over the network",
	Long: `Pong Arena pairs waiting players into rooms and runs every room's
physics on the server, streaming snapshots to both players 60 times a second.

Available commands:
  serve    - Start the WebSocket and SSH servers
  play     - Terminal client over WebSocket
  watch    - Follow rooms through the NATS mirror
  config   - Print the effective configuration

Examples:
  arena serve
  arena serve --ws :8080 --no-ssh
  arena play --server ws://localhost:3000/ws
  ssh localhost -p 23234`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration, applies global flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		loaded.Game.Seed = flagSeed
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", loaded.Source, err)
	}

	l, closer, err := logging.New(loaded.Log)
	if err != nil {
		return err
	}

	cfg, logger, logCloser = loaded, l, closer
	logger.Debug("config loaded", "source", cfg.Source)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	return logCloser.Close()
}
