package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/pong-arena/internal/multiplayer"
	"github.com/vovakirdan/pong-arena/internal/platform/tui"
	"github.com/vovakirdan/pong-arena/internal/transport/natsbridge"
	"github.com/vovakirdan/pong-arena/internal/transport/ws"
)

var (
	flagWSAddr  string
	flagSSHAddr string
	flagNoSSH   bool
	flagNATSURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arena servers",
	Long: `Start the WebSocket server and, unless disabled, the SSH server.
Both share one gateway, so a browser client and an SSH player can be
matched against each other.

When NATS is enabled every room snapshot is also published to
<prefix>.rooms.<roomId>.state.

Examples:
  arena serve                          # WebSocket on :3000, SSH on :23234
  arena serve --ws :8080 --no-ssh      # WebSocket only
  arena serve --nats nats://127.0.0.1:4222

Players can connect with:
  arena play --server ws://localhost:3000/ws
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket listen address (host:port)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (host:port)")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Disable the SSH server")
	serveCmd.Flags().StringVar(&flagNATSURL, "nats", "", "Mirror snapshots to this NATS server")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagWSAddr != "" {
		cfg.Server.WSAddr = flagWSAddr
	}
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagNoSSH {
		cfg.Server.SSHEnabled = false
	}
	if flagNATSURL != "" {
		cfg.NATS.Enabled = true
		cfg.NATS.URL = flagNATSURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rooms := multiplayer.NewManager(multiplayer.ManagerConfig{
		TickInterval: multiplayer.DefaultManagerConfig().TickInterval,
		Seed:         cfg.Game.Seed,
	}, nil, logger.WithPrefix("rooms"))

	var mirrors []multiplayer.Broadcaster
	if cfg.NATS.Enabled {
		nc, err := natsbridge.Connect(cfg.NATS.URL, logger)
		if err != nil {
			logger.Fatal("cannot connect to nats", "error", err)
		}
		defer nc.Close()
		mirrors = append(mirrors, natsbridge.NewMirror(nc, cfg.NATS.SubjectPrefix, logger.WithPrefix("nats")))
		logger.Info("mirroring snapshots", "url", cfg.NATS.URL, "subjects", natsbridge.AllStates(cfg.NATS.SubjectPrefix))
	}

	gw := multiplayer.NewGateway(multiplayer.GatewayConfig{
		ClampPaddleInput:  cfg.Game.ClampPaddleInput,
		EndAbandonedRooms: cfg.Game.EndAbandonedRooms,
	}, rooms, logger, mirrors...)
	defer gw.Shutdown()

	wsOpts := ws.DefaultOptions()
	wsOpts.EventBuffer = cfg.Game.EventBuffer
	wsServer := ws.NewServer(gw, wsOpts, logger.WithPrefix("ws"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsServer.ListenAndServe(gctx, cfg.Server.WSAddr, cfg.Server.WSPath)
	})

	if cfg.Server.SSHEnabled {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.Server.SSHAddr,
			HostKeyPath: cfg.Server.HostKey,
			IdleTimeout: cfg.Server.IdleTimeout,
			EventBuffer: cfg.Game.EventBuffer,
		}, gw, logger)
		if err != nil {
			logger.Fatal("cannot create SSH server", "error", err)
		}
		g.Go(func() error {
			return sshServer.ListenAndServe(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
	logger.Info("bye")
}
