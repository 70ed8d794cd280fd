// Package protocol is the JSON wire format shared by the server and clients.
// Every frame is an envelope {"event": name, "data": payload}.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/multiplayer"
)

// Event names.
const (
	EventRequestMatch = "requestMatch"
	EventJoinRoom     = "joinRoom"
	EventPlayerMove   = "playerMove"

	EventConnected          = "connected"
	EventWaitingForOpponent = "waitingForOpponent"
	EventMatchFound         = "matchFound"
	EventGameState          = "gameState"
)

// ErrMalformed is returned for frames that are not a valid envelope or
// whose payload does not fit the event.
var ErrMalformed = errors.New("malformed frame")

// Envelope is the outer shape of every frame.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type connectedPayload struct {
	PlayerID string `json:"playerId"`
}

type matchFoundPayload struct {
	RoomID string `json:"roomId"`
}

type joinRoomPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type playerMovePayload struct {
	RoomID string   `json:"roomId"`
	MovedY *float64 `json:"movedY"`
}

// EncodeEvent renders a server-to-client event.
func EncodeEvent(evt multiplayer.SessionEvent) ([]byte, error) {
	switch e := evt.(type) {
	case multiplayer.ConnectedEvent:
		return encode(EventConnected, connectedPayload{PlayerID: string(e.PlayerID)})
	case multiplayer.WaitingForOpponentEvent:
		return encode(EventWaitingForOpponent, nil)
	case multiplayer.MatchFoundEvent:
		return encode(EventMatchFound, matchFoundPayload{RoomID: string(e.RoomID)})
	case multiplayer.GameStateEvent:
		return encode(EventGameState, e.Snapshot)
	default:
		return nil, fmt.Errorf("encode %T: %w", evt, multiplayer.ErrUnknownEvent)
	}
}

// DecodeEvent parses a server-to-client frame.
func DecodeEvent(frame []byte) (multiplayer.SessionEvent, error) {
	env, err := decodeEnvelope(frame)
	if err != nil {
		return nil, err
	}

	switch env.Event {
	case EventConnected:
		var p connectedPayload
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		return multiplayer.ConnectedEvent{PlayerID: multiplayer.SessionID(p.PlayerID)}, nil
	case EventWaitingForOpponent:
		return multiplayer.WaitingForOpponentEvent{}, nil
	case EventMatchFound:
		var p matchFoundPayload
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		return multiplayer.MatchFoundEvent{RoomID: multiplayer.RoomID(p.RoomID)}, nil
	case EventGameState:
		var snap pong.Snapshot
		if err := decodeData(env, &snap); err != nil {
			return nil, err
		}
		return multiplayer.GameStateEvent{Snapshot: snap}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", env.Event, multiplayer.ErrUnknownEvent)
	}
}

// EncodeMessage renders a client-to-server message.
func EncodeMessage(msg multiplayer.GatewayMessage) ([]byte, error) {
	switch m := msg.(type) {
	case multiplayer.RequestMatchMsg:
		return encode(EventRequestMatch, nil)
	case multiplayer.JoinRoomMsg:
		return encode(EventJoinRoom, joinRoomPayload{RoomID: string(m.RoomID), PlayerID: m.PlayerID})
	case multiplayer.PlayerMoveMsg:
		y := m.MovedY
		return encode(EventPlayerMove, playerMovePayload{RoomID: string(m.RoomID), MovedY: &y})
	default:
		return nil, fmt.Errorf("encode %T: %w", msg, multiplayer.ErrUnknownEvent)
	}
}

// DecodeMessage parses a client-to-server frame.
func DecodeMessage(frame []byte) (multiplayer.GatewayMessage, error) {
	env, err := decodeEnvelope(frame)
	if err != nil {
		return nil, err
	}

	switch env.Event {
	case EventRequestMatch:
		return multiplayer.RequestMatchMsg{}, nil
	case EventJoinRoom:
		var p joinRoomPayload
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		return multiplayer.JoinRoomMsg{RoomID: multiplayer.RoomID(p.RoomID), PlayerID: p.PlayerID}, nil
	case EventPlayerMove:
		var p playerMovePayload
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.MovedY == nil {
			return nil, fmt.Errorf("%s without movedY: %w", env.Event, ErrMalformed)
		}
		return multiplayer.PlayerMoveMsg{RoomID: multiplayer.RoomID(p.RoomID), MovedY: *p.MovedY}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", env.Event, multiplayer.ErrUnknownEvent)
	}
}

func encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

func decodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: missing event name", ErrMalformed)
	}
	return env, nil
}

func decodeData(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s without data: %w", env.Event, ErrMalformed)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%s: %w: %v", env.Event, ErrMalformed, err)
	}
	return nil
}
