package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pong-arena/internal/platform/tui"
	"github.com/vovakirdan/pong-arena/internal/transport/ws"
)

var flagServerURL string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play over WebSocket",
	Long: `Connect to an arena server and play.

Controls:
  Enter      - Find a match
  W/Up       - Paddle up
  S/Down     - Paddle down
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Examples:
  arena play
  arena play --server ws://arena.example.com:3000/ws`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServerURL, "server", "", "Server URL (default: derived from ws_addr and ws_path)")
}

func runPlay(_ *cobra.Command, _ []string) {
	url := flagServerURL
	if url == "" {
		url = localURL(cfg.Server.WSAddr, cfg.Server.WSPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := ws.Dial(ctx, url, logger.WithPrefix("ws"))
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	model := tui.NewArenaModel(client, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// localURL turns a listen address like ":3000" into a dialable URL.
func localURL(addr, path string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "ws://" + addr + path
}
