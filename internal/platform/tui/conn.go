package tui

import (
	"errors"

	"github.com/vovakirdan/pong-arena/internal/multiplayer"
)

// Conn is the client's view of a server: messages go out, events come in.
// The WebSocket client satisfies it, as does LocalConn for SSH sessions that
// share the server process.
type Conn interface {
	Send(msg multiplayer.GatewayMessage) error
	Events() <-chan multiplayer.SessionEvent
	Done() <-chan struct{}
	Close() error
}

// LocalConn attaches a terminal session directly to an in-process gateway.
type LocalConn struct {
	gw      *multiplayer.Gateway
	session *multiplayer.ChannelSession
}

// NewLocalConn registers a new session with gw.
func NewLocalConn(gw *multiplayer.Gateway, id multiplayer.SessionID, bufferSize int) *LocalConn {
	c := &LocalConn{
		gw:      gw,
		session: multiplayer.NewChannelSession(id, bufferSize),
	}
	gw.Connect(c.session)
	return c
}

// ID returns the session id.
func (c *LocalConn) ID() multiplayer.SessionID {
	return c.session.ID()
}

// Send hands a message to the gateway. Messages for rooms that no longer
// exist are dropped like they are for remote clients.
func (c *LocalConn) Send(msg multiplayer.GatewayMessage) error {
	err := c.gw.Handle(c.session.ID(), msg)
	if errors.Is(err, multiplayer.ErrRoomNotFound) {
		return nil
	}
	return err
}

// Events returns events addressed to this session.
func (c *LocalConn) Events() <-chan multiplayer.SessionEvent {
	return c.session.Events()
}

// Done is closed once the connection is closed.
func (c *LocalConn) Done() <-chan struct{} {
	return c.session.Done()
}

// Close disconnects the session from the gateway. Safe to call multiple times.
func (c *LocalConn) Close() error {
	c.gw.Disconnect(c.session.ID())
	c.session.Close()
	return nil
}
