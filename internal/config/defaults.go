package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// Default returns the hard-coded configuration. The embedded
// defaults/arena.yaml carries the same values.
func Default() Config {
	return Config{
		Server: ServerConfig{
			WSAddr:      ":3000",
			WSPath:      "/ws",
			SSHAddr:     ":23234",
			SSHEnabled:  true,
			HostKey:     ".ssh/arena_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			Prefix:     "arena",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "arena",
		},
		Game: GameConfig{
			ClampPaddleInput: true,
			EventBuffer:      64,
		},
		Source: "defaults",
	}
}
