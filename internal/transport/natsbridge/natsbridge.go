// Package natsbridge mirrors room snapshots onto NATS subjects so that
// processes other than the game server can observe live rooms.
package natsbridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/multiplayer"
	"github.com/vovakirdan/pong-arena/internal/protocol"
)

// StateSubject is the subject a room's snapshots are published on.
func StateSubject(prefix string, roomID multiplayer.RoomID) string {
	return fmt.Sprintf("%s.rooms.%s.state", prefix, roomID)
}

// AllStates matches the state subject of every room.
func AllStates(prefix string) string {
	return prefix + ".rooms.*.state"
}

// RoomFromSubject extracts the room id from a state subject.
func RoomFromSubject(prefix, subject string) (multiplayer.RoomID, bool) {
	rest, ok := strings.CutPrefix(subject, prefix+".rooms.")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, ".state")
	if !ok || id == "" {
		return "", false
	}
	return multiplayer.RoomID(id), true
}

// Connect dials NATS with reconnects enabled.
func Connect(url string, logger *log.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("pong-arena"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return conn, nil
}

// publisher is the part of *nats.Conn the mirror needs.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Mirror is a multiplayer.Broadcaster that publishes every snapshot as a
// gameState frame.
type Mirror struct {
	pub    publisher
	prefix string
	logger *log.Logger
}

// NewMirror creates a mirror publishing on conn under prefix.
func NewMirror(conn *nats.Conn, prefix string, logger *log.Logger) *Mirror {
	return newMirror(conn, prefix, logger)
}

func newMirror(pub publisher, prefix string, logger *log.Logger) *Mirror {
	return &Mirror{pub: pub, prefix: prefix, logger: logger}
}

// Broadcast implements multiplayer.Broadcaster. Publish errors are logged
// and never reach the room.
func (m *Mirror) Broadcast(roomID multiplayer.RoomID, snap pong.Snapshot) {
	frame, err := protocol.EncodeEvent(multiplayer.GameStateEvent{RoomID: roomID, Snapshot: snap})
	if err != nil {
		m.logger.Error("encode mirrored state", "room", roomID, "error", err)
		return
	}
	if err := m.pub.Publish(StateSubject(m.prefix, roomID), frame); err != nil {
		m.logger.Warn("publish state", "room", roomID, "error", err)
	}
}

// Watch subscribes to the snapshots of every room and calls fn for each.
func Watch(conn *nats.Conn, prefix string, logger *log.Logger, fn func(multiplayer.RoomID, pong.Snapshot)) (*nats.Subscription, error) {
	sub, err := conn.Subscribe(AllStates(prefix), func(msg *nats.Msg) {
		roomID, ok := RoomFromSubject(prefix, msg.Subject)
		if !ok {
			return
		}
		evt, err := protocol.DecodeEvent(msg.Data)
		if err != nil {
			logger.Warn("dropping mirrored frame", "subject", msg.Subject, "error", err)
			return
		}
		if gs, ok := evt.(multiplayer.GameStateEvent); ok {
			fn(roomID, gs.Snapshot)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", AllStates(prefix), err)
	}
	return sub, nil
}
