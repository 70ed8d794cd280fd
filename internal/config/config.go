// Package config provides YAML-based configuration loading for the arena
// server and its terminal clients.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	NATS   NATSConfig   `yaml:"nats"`
	Game   GameConfig   `yaml:"game"`

	// Source names where the configuration was loaded from.
	Source string `yaml:"-"`
}

// ServerConfig defines the listeners.
type ServerConfig struct {
	WSAddr      string        `yaml:"ws_addr"`
	WSPath      string        `yaml:"ws_path"`
	SSHAddr     string        `yaml:"ssh_addr"`
	SSHEnabled  bool          `yaml:"ssh_enabled"`
	HostKey     string        `yaml:"host_key"`     // Path to the SSH host key, created if missing
	IdleTimeout time.Duration `yaml:"idle_timeout"` // SSH idle timeout
}

// LogConfig defines logging output.
type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	Prefix     string `yaml:"prefix"`
	File       string `yaml:"file"` // Optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// NATSConfig defines the optional snapshot mirror.
type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// GameConfig defines room behaviour that is allowed to vary.
// Arena geometry and physics constants are fixed and not listed here.
type GameConfig struct {
	Seed              int64 `yaml:"seed"` // 0 = time-based
	ClampPaddleInput  bool  `yaml:"clamp_paddle_input"`
	EndAbandonedRooms bool  `yaml:"end_abandoned_rooms"`
	EventBuffer       int   `yaml:"event_buffer"` // Per-connection outbound queue
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.WSAddr != "", "server.ws_addr is empty")
	check(strings.HasPrefix(c.Server.WSPath, "/"), "server.ws_path %q must start with /", c.Server.WSPath)
	if c.Server.SSHEnabled {
		check(c.Server.SSHAddr != "", "server.ssh_addr is empty")
		check(c.Server.HostKey != "", "server.host_key is empty")
	}
	check(c.Server.IdleTimeout >= 0, "server.idle_timeout is negative")

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	check(c.Log.MaxSizeMB >= 0, "log.max_size_mb is negative")
	check(c.Log.MaxBackups >= 0, "log.max_backups is negative")
	check(c.Log.MaxAgeDays >= 0, "log.max_age_days is negative")

	if c.NATS.Enabled {
		check(c.NATS.URL != "", "nats.url is empty")
	}
	check(c.NATS.SubjectPrefix != "" && !strings.ContainsAny(c.NATS.SubjectPrefix, " *>"),
		"nats.subject_prefix %q is not a valid subject token", c.NATS.SubjectPrefix)

	check(c.Game.EventBuffer >= 0, "game.event_buffer is negative")

	return errors.Join(errs...)
}

// YAML renders the configuration as it would be written to a file.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
