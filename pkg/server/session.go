package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/page"
)

// Session binds one page controller to at most one WebSocket connection.
type Session struct {
	ID   string
	Page *page.Page

	created  time.Time
	attached bool
	manager  *SessionManager
	logger   *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	send      chan []page.Command
	done      chan struct{}
	closeOnce sync.Once
}

// run serves the connection until the client goes away. It blocks.
func (s *Session) run(ctx context.Context, conn *websocket.Conn, cfg *Config) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	m := s.manager.metrics
	m.SessionOpened()
	defer m.SessionClosed()
	defer s.manager.Remove(s.ID)
	defer s.Close()

	go s.writeLoop(cfg)

	s.Page.SetSink(s.push)
	s.logger.Debug("session attached")

	s.readLoop(ctx, cfg)
}

// readLoop decodes client events and dispatches them to the page.
func (s *Session) readLoop(ctx context.Context, cfg *Config) {
	conn := s.conn
	conn.SetReadLimit(cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.manager.metrics.RecordWebSocketError("read")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var ev page.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.logger.Warn("event decode error", "error", err)
			s.manager.metrics.RecordWebSocketError("decode")
			continue
		}

		if err := s.Page.Deliver(ctx, ev); err != nil {
			s.logger.Warn("event rejected", "type", ev.Type, "error", errors.FromError(err, "E302").FormatCompact())
		}
	}
}

// writeLoop writes queued commands and heartbeat pings.
func (s *Session) writeLoop(cfg *Config) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case cmds := <-s.send:
			data, err := json.Marshal(cmds)
			if err != nil {
				s.logger.Error("command encode error", "error", err)
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error("write error", "error", err)
				s.manager.metrics.RecordWebSocketError("write")
				s.Close()
				return
			}
			s.manager.metrics.RecordCommands(len(cmds))

		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.manager.metrics.RecordWebSocketError("ping")
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// push queues cmds for the client. It is the page's sink, so it runs under
// the page lock; it drops the commands once the session closed.
func (s *Session) push(cmds []page.Command) {
	if len(cmds) == 0 {
		return
	}
	select {
	case s.send <- cmds:
	case <-s.done:
	}
}

// Close ends the connection. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn != nil {
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			conn.Close()
		}
	})
}
