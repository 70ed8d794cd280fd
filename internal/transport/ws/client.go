package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/pong-arena/internal/multiplayer"
	"github.com/vovakirdan/pong-arena/internal/protocol"
)

// Client is a WebSocket connection to an arena server.
// Incoming events are decoded onto Events(); Send encodes outgoing messages.
type Client struct {
	ws     *websocket.Conn
	inbox  *multiplayer.ChannelSession
	logger *log.Logger

	writeMu sync.Mutex
}

// Dial connects to url, e.g. ws://localhost:3000/ws.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		ws:     conn,
		inbox:  multiplayer.NewChannelSession("server", multiplayer.DefaultEventBuffer),
		logger: logger,
	}
	go c.readLoop()
	return c, nil
}

// readLoop decodes server frames. gameState frames carry no room id on the
// wire, so they are tagged with the room of the latest matchFound.
func (c *Client) readLoop() {
	defer c.inbox.Close()
	var room multiplayer.RoomID
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			c.logger.Debug("client read", "error", err)
			return
		}
		evt, err := protocol.DecodeEvent(frame)
		if err != nil {
			c.logger.Warn("client dropping frame", "error", err)
			continue
		}
		switch e := evt.(type) {
		case multiplayer.MatchFoundEvent:
			room = e.RoomID
		case multiplayer.GameStateEvent:
			e.RoomID = room
			evt = e
		}
		c.inbox.Send(evt)
	}
}

// Send writes one message to the server.
func (c *Client) Send(msg multiplayer.GatewayMessage) error {
	frame, err := protocol.EncodeMessage(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Events returns decoded server events.
func (c *Client) Events() <-chan multiplayer.SessionEvent {
	return c.inbox.Events()
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.inbox.Done()
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.ws.Close()
}
