package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/multiplayer"
	"github.com/vovakirdan/pong-arena/internal/transport/natsbridge"
)

var (
	flagWatchNATS string
	flagWatchRoom string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow rooms through the NATS mirror",
	Long: `Subscribe to the snapshots a server mirrors to NATS and log them.
Snapshots arrive 60 times a second per room, so run with --log-level debug
to see every one; at info only the first snapshot of each room is shown.

Examples:
  arena watch
  arena watch --room game_1700000000000 --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchNATS, "nats", "", "NATS server URL (default: from config)")
	watchCmd.Flags().StringVar(&flagWatchRoom, "room", "", "Only show this room")
}

func runWatch(_ *cobra.Command, _ []string) {
	url := cfg.NATS.URL
	if flagWatchNATS != "" {
		url = flagWatchNATS
	}

	nc, err := natsbridge.Connect(url, logger)
	if err != nil {
		logger.Fatal("cannot connect to nats", "error", err)
	}
	defer nc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seen := make(map[multiplayer.RoomID]bool)
	rooms := make(chan multiplayer.RoomID, 16)

	sub, err := natsbridge.Watch(nc, cfg.NATS.SubjectPrefix, logger, func(roomID multiplayer.RoomID, snap pong.Snapshot) {
		if flagWatchRoom != "" && string(roomID) != flagWatchRoom {
			return
		}
		logger.Debug("snapshot",
			"room", roomID,
			"ball_x", snap.BallPosition.X,
			"ball_y", snap.BallPosition.Y,
			"left_y", snap.LeftPaddlePositionY,
			"right_y", snap.RightPaddlePositionY,
		)
		select {
		case rooms <- roomID:
		default:
		}
	})
	if err != nil {
		logger.Fatal("cannot subscribe", "error", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	logger.Info("watching", "url", url, "subject", natsbridge.AllStates(cfg.NATS.SubjectPrefix))
	for {
		select {
		case <-ctx.Done():
			return
		case roomID := <-rooms:
			if !seen[roomID] {
				seen[roomID] = true
				logger.Info("room is live", "room", roomID)
			}
		}
	}
}
