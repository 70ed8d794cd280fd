package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/multiplayer"
)

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		evt      multiplayer.SessionEvent
		expected string
	}{
		{"connected", multiplayer.ConnectedEvent{PlayerID: "abc"}, `{"event":"connected","data":{"playerId":"abc"}}`},
		{"waiting", multiplayer.WaitingForOpponentEvent{}, `{"event":"waitingForOpponent"}`},
		{"match found", multiplayer.MatchFoundEvent{RoomID: "game_1"}, `{"event":"matchFound","data":{"roomId":"game_1"}}`},
		{
			"game state",
			multiplayer.GameStateEvent{
				RoomID: "game_1",
				Snapshot: pong.Snapshot{
					Players:              pong.Players{Left: "a"},
					BallPosition:         pong.Position{X: 0.5, Y: -1},
					LeftPaddlePositionY:  2,
					RightPaddlePositionY: 0,
				},
			},
			`{"event":"gameState","data":{"players":{"left":"a","right":null},"ballPosition":{"x":0.5,"y":-1},"leftPaddlePositionY":2,"rightPaddlePositionY":0}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := EncodeEvent(tt.evt)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(frame))
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	evt, err := DecodeEvent([]byte(`{"event":"gameState","data":{"players":{"left":null,"right":"b"},"ballPosition":{"x":1,"y":2},"leftPaddlePositionY":0.5,"rightPaddlePositionY":-0.5}}`))
	require.NoError(t, err)

	gs, ok := evt.(multiplayer.GameStateEvent)
	require.True(t, ok)
	assert.Equal(t, pong.Players{Right: "b"}, gs.Snapshot.Players)
	assert.Equal(t, pong.Position{X: 1, Y: 2}, gs.Snapshot.BallPosition)
	assert.Equal(t, 0.5, gs.Snapshot.LeftPaddlePositionY)

	evt, err = DecodeEvent([]byte(`{"event":"matchFound","data":{"roomId":"game_9"}}`))
	require.NoError(t, err)
	assert.Equal(t, multiplayer.MatchFoundEvent{RoomID: "game_9"}, evt)
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		expected multiplayer.GatewayMessage
	}{
		{"request match", `{"event":"requestMatch"}`, multiplayer.RequestMatchMsg{}},
		{"request match with data", `{"event":"requestMatch","data":{}}`, multiplayer.RequestMatchMsg{}},
		{"join room", `{"event":"joinRoom","data":{"roomId":"game_1","playerId":"p"}}`, multiplayer.JoinRoomMsg{RoomID: "game_1", PlayerID: "p"}},
		{"player move", `{"event":"playerMove","data":{"roomId":"game_1","movedY":-1.25}}`, multiplayer.PlayerMoveMsg{RoomID: "game_1", MovedY: -1.25}},
		{"player move zero", `{"event":"playerMove","data":{"roomId":"game_1","movedY":0}}`, multiplayer.PlayerMoveMsg{RoomID: "game_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, msg)
		})
	}
}

func TestDecodeMessageErrors(t *testing.T) {
	tests := []struct {
		name   string
		frame  string
		target error
	}{
		{"not json", `nope`, ErrMalformed},
		{"no event", `{"data":{}}`, ErrMalformed},
		{"unknown event", `{"event":"fly"}`, multiplayer.ErrUnknownEvent},
		{"join without data", `{"event":"joinRoom"}`, ErrMalformed},
		{"move without y", `{"event":"playerMove","data":{"roomId":"r"}}`, ErrMalformed},
		{"move with string y", `{"event":"playerMove","data":{"roomId":"r","movedY":"up"}}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage([]byte(tt.frame))
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	msgs := []multiplayer.GatewayMessage{
		multiplayer.RequestMatchMsg{},
		multiplayer.JoinRoomMsg{RoomID: "game_1", PlayerID: "abc"},
		multiplayer.PlayerMoveMsg{RoomID: "game_1", MovedY: 3.5},
	}

	for _, msg := range msgs {
		frame, err := EncodeMessage(msg)
		require.NoError(t, err)
		back, err := DecodeMessage(frame)
		require.NoError(t, err)
		assert.Equal(t, msg, back)
	}
}
