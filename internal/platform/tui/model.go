package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pong-arena/internal/core"
	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/multiplayer"
)

// PaddleStep is how far one key press moves the paddle, in world units.
const PaddleStep = 0.25

// chromeRows is the number of terminal rows used by the header and help line.
const chromeRows = 2

type clientState int

const (
	stateIdle clientState = iota
	stateWaiting
	statePlaying
	stateDisconnected
)

func (s clientState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateWaiting:
		return "waiting"
	case statePlaying:
		return "playing"
	case stateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// eventMsg wraps a server event for the Bubble Tea loop.
type eventMsg struct {
	evt multiplayer.SessionEvent
}

// disconnectedMsg is delivered once the connection is gone.
type disconnectedMsg struct{}

// waitForEvent blocks until the next server event or disconnect.
func waitForEvent(c Conn) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-c.Events():
			return eventMsg{evt: evt}
		case <-c.Done():
			return disconnectedMsg{}
		}
	}
}

// ArenaModel is the Bubble Tea model for one player. It requests a match,
// joins the room it is given and steers its paddle; the server owns
// everything else.
type ArenaModel struct {
	conn     Conn
	keys     *KeyMapper
	help     help.Model
	spinner  spinner.Model
	screen   *core.Screen
	width    int
	height   int
	state    clientState
	playerID string
	roomID   multiplayer.RoomID
	snap     pong.Snapshot
	haveSnap bool
	paddleY  float64
	err      error
	quitting bool
}

// NewArenaModel creates a model talking to the server over conn.
func NewArenaModel(conn Conn, width, height int) ArenaModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	return ArenaModel{
		conn:    conn,
		keys:    NewKeyMapper(),
		help:    help.New(),
		spinner: sp,
		screen:  core.NewScreen(width, height-chromeRows),
		width:   width,
		height:  height,
	}
}

// Init starts listening for server events.
func (m ArenaModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.conn), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m ArenaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height-chromeRows)
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m = m.handleEvent(msg.evt)
		return m, waitForEvent(m.conn)

	case disconnectedMsg:
		m.state = stateDisconnected
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ArenaModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		_ = m.conn.Close()
		return m, tea.Quit

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll

	case core.ActionConfirm:
		if m.state == stateIdle {
			if m.send(multiplayer.RequestMatchMsg{}) {
				m.state = stateWaiting
			}
		}

	case core.ActionUp:
		m = m.movePaddle(-PaddleStep)

	case core.ActionDown:
		m = m.movePaddle(PaddleStep)
	}
	return m, nil
}

func (m ArenaModel) handleEvent(evt multiplayer.SessionEvent) ArenaModel {
	switch evt := evt.(type) {
	case multiplayer.ConnectedEvent:
		m.playerID = string(evt.PlayerID)

	case multiplayer.WaitingForOpponentEvent:
		if m.state == stateIdle {
			m.state = stateWaiting
		}

	case multiplayer.MatchFoundEvent:
		m.roomID = evt.RoomID
		m.haveSnap = false
		m.paddleY = 0
		if m.send(multiplayer.JoinRoomMsg{RoomID: evt.RoomID, PlayerID: m.playerID}) {
			m.state = statePlaying
		}

	case multiplayer.GameStateEvent:
		// An empty room id comes from a transport that did not tag the frame.
		if m.state == statePlaying && (evt.RoomID == m.roomID || evt.RoomID == "") {
			m.snap = evt.Snapshot
			m.haveSnap = true
		}
	}
	return m
}

func (m ArenaModel) movePaddle(delta float64) ArenaModel {
	if m.state != statePlaying {
		return m
	}
	m.paddleY = pong.ClampPaddleY(m.paddleY + delta)
	m.send(multiplayer.PlayerMoveMsg{RoomID: m.roomID, MovedY: m.paddleY})
	return m
}

// send writes msg and records any failure for the status line.
func (m *ArenaModel) send(msg multiplayer.GatewayMessage) bool {
	if err := m.conn.Send(msg); err != nil {
		m.err = err
		return false
	}
	m.err = nil
	return true
}

// View renders the current state to a string for display.
func (m ArenaModel) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("PONG ARENA"),
		statusStyle.Render(m.status()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.body(),
		m.help.View(m.keys.Keys()),
	)
}

func (m ArenaModel) status() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	switch m.state {
	case statePlaying:
		return fmt.Sprintf("room %s", m.roomID)
	case stateWaiting:
		return "looking for an opponent"
	}
	return m.state.String()
}

func (m ArenaModel) body() string {
	w, h := m.screen.Width(), m.screen.Height()

	switch m.state {
	case stateWaiting:
		return centerBlock(m.spinner.View()+" waiting for an opponent...", w, h)

	case statePlaying:
		if !m.haveSnap {
			return centerBlock("match found, starting...", w, h)
		}
		pong.Render(m.screen, m.snap, m.playerID)
		return RenderScreen(m.screen)

	case stateDisconnected:
		return centerBlock(errorStyle.Render("disconnected from server"), w, h)
	}
	return centerBlock("press enter to find a match", w, h)
}
