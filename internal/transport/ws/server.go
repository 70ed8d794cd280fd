// Package ws serves the arena over WebSocket and provides the matching client.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/pong-arena/internal/multiplayer"
	"github.com/vovakirdan/pong-arena/internal/protocol"
)

// Options tune connection handling.
type Options struct {
	EventBuffer int           // Per-connection outbound queue
	PongWait    time.Duration // Read deadline extended by every pong
	WriteWait   time.Duration // Deadline for a single write
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		EventBuffer: multiplayer.DefaultEventBuffer,
		PongWait:    60 * time.Second,
		WriteWait:   10 * time.Second,
	}
}

func (o Options) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

// Server upgrades HTTP requests to WebSocket connections and attaches each
// one to the gateway as a session with a fresh uuid.
type Server struct {
	gw       *multiplayer.Gateway
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[multiplayer.SessionID]*conn
	wg    sync.WaitGroup
}

// NewServer creates a WebSocket server in front of gw.
func NewServer(gw *multiplayer.Gateway, opts Options, logger *log.Logger) *Server {
	def := DefaultOptions()
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = def.EventBuffer
	}
	if opts.PongWait <= 0 {
		opts.PongWait = def.PongWait
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = def.WriteWait
	}
	return &Server{
		gw:     gw,
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[multiplayer.SessionID]*conn),
	}
}

// Handler returns a mux serving WebSocket upgrades on path and a health check.
func (s *Server) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok rooms=%d sessions=%d\n", s.gw.Rooms().Count(), s.gw.Sessions().Count())
	})
	return mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := multiplayer.SessionID(uuid.NewString())
	c := &conn{
		server:  s,
		ws:      ws,
		session: multiplayer.NewChannelSession(id, s.opts.EventBuffer),
		logger:  s.logger.With("session", id),
	}

	s.mu.Lock()
	s.conns[id] = c
	s.mu.Unlock()

	s.gw.Connect(c.session)
	c.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	s.wg.Add(2)
	go c.writePump()
	go c.readPump()
}

// Close drops every connection and waits for their pumps to exit.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.session.Close()
	}
	s.wg.Wait()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", "addr", addr, "path", path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("websocket server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("websocket shutdown: %w", err)
	}
	return nil
}

func (s *Server) forget(id multiplayer.SessionID) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

// conn is one upgraded socket and its gateway session.
type conn struct {
	server  *Server
	ws      *websocket.Conn
	session *multiplayer.ChannelSession
	logger  *log.Logger
}

func (c *conn) readPump() {
	defer func() {
		id := c.session.ID()
		c.server.gw.Disconnect(id)
		c.session.Close()
		c.server.forget(id)
		c.server.wg.Done()
	}()

	pongWait := c.server.opts.PongWait
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Warn("set read deadline", "error", err)
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *conn) handleFrame(frame []byte) {
	msg, err := protocol.DecodeMessage(frame)
	if err != nil {
		c.logger.Warn("dropping frame", "error", err)
		return
	}
	if err := c.server.gw.Handle(c.session.ID(), msg); err != nil {
		if errors.Is(err, multiplayer.ErrRoomNotFound) {
			c.logger.Debug("message ignored", "error", err)
			return
		}
		c.logger.Warn("message failed", "error", err)
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(c.server.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		c.ws.Close()
		c.server.wg.Done()
	}()

	writeWait := c.server.opts.WriteWait
	for {
		select {
		case evt := <-c.session.Events():
			frame, err := protocol.EncodeEvent(evt)
			if err != nil {
				c.logger.Error("encode event", "error", err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("websocket write", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.session.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
