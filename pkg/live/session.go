package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/vdom"
	"github.com/vango-dev/viewroute/pkg/view"
)

// Session is one connected preview client.
type Session struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	inst *Instance

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex

	// mu guards the output collected during a navigation.
	mu      sync.Mutex
	changed []Message
	pending []vdom.Patch

	unsubscribe func()
	closeOnce   sync.Once
}

func newSession(id string, h *Hub, conn *websocket.Conn, inst *Instance) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:     id,
		hub:    h,
		conn:   conn,
		inst:   inst,
		ctx:    ctx,
		cancel: cancel,
	}

	for _, c := range inst.Containers {
		c.OnRender = s.collectPatches
	}
	s.unsubscribe = inst.Router.Bus().Subscribe(func(ev router.PageChanged) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.changed = append(s.changed, Message{
			Type:    TypePageChanged,
			Name:    ev.Context.Name,
			Path:    ev.Context.CanonicalPath + querySuffix(ev.Context.Querystring),
			Params:  ev.Context.Params,
			Replace: ev.Context.Replace,
		})
	})
	return s
}

func querySuffix(q string) string {
	if q == "" {
		return ""
	}
	return "?" + q
}

func (s *Session) collectPatches(_ *view.Container, patches []vdom.Patch) {
	if len(patches) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, patches...)
}

// run sends the hello message, then reads until the connection fails.
func (s *Session) run() {
	defer s.Close()

	cfg := s.hub.config
	s.conn.SetReadLimit(cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	if err := s.send(Message{Type: TypeHello, Session: s.ID}); err != nil {
		return
	}

	go s.pingLoop()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.hub.logger.Warn("read error", "session", s.ID, "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.hub.logger.Debug("bad message", "session", s.ID, "error", err)
			_ = s.send(Message{Type: TypeError, Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case TypeNavigate:
			if err := s.Navigate(msg.Path, msg.Replace); err != nil && isConnError(err) {
				return
			}
		default:
			s.hub.logger.Debug("unknown message type", "session", s.ID, "type", msg.Type)
			_ = s.send(Message{Type: TypeError, Error: "unknown message type " + string(msg.Type)})
		}
	}
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.hub.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				s.Close()
				return
			}
		}
	}
}

// connError marks failures writing to the client.
type connError struct{ err error }

func (e connError) Error() string { return "live: write: " + e.err.Error() }
func (e connError) Unwrap() error { return e.err }

func isConnError(err error) bool {
	var ce connError
	return errors.As(err, &ce)
}

// Navigate runs a navigation on the session's router and sends the
// resulting page-changed messages and patches. A failed navigation is
// reported to the client as an error message; only write failures are
// returned.
func (s *Session) Navigate(path string, replace bool) error {
	var opts []router.NavigateOption
	if replace {
		opts = append(opts, router.WithReplace())
	}

	ctx, navErr := s.inst.Router.Navigate(s.ctx, path, opts...)

	s.mu.Lock()
	changed, pending := s.changed, s.pending
	s.changed, s.pending = nil, nil
	s.mu.Unlock()

	for _, m := range changed {
		if err := s.send(m); err != nil {
			return err
		}
	}
	if len(pending) > 0 {
		if err := s.send(Message{Type: TypePatch, Patches: pending}); err != nil {
			return err
		}
		if s.hub.config.Metrics != nil {
			s.hub.config.Metrics.RecordPatches(len(pending))
		}
	}

	if navErr != nil {
		s.hub.logger.Debug("navigation failed", "session", s.ID, "path", path, "error", navErr)
		return s.send(Message{Type: TypeError, Path: path, Error: navErr.Error()})
	}

	s.hub.logger.Debug("navigated", "session", s.ID, "route", ctx.Name, "patches", len(pending))
	return nil
}

func (s *Session) send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return connError{err}
	}
	return nil
}

// Close ends the session and releases its instance.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.writeMu.Lock()
		s.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		s.conn.Close()

		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.inst.Close != nil {
			s.inst.Close()
		}
	})
}

// Current returns the route the session is showing, or nil.
func (s *Session) Current() *router.Route {
	return s.inst.Router.Current()
}
