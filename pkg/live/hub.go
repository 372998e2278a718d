package live

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/viewroute/pkg/middleware"
	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/vdom"
	"github.com/vango-dev/viewroute/pkg/view"
)

// Instance is what one session runs: a started router, the document its
// containers live in, and the containers attached to the router.
type Instance struct {
	Router     *router.Router
	Document   *vdom.VNode
	Containers []*view.Container

	// Close releases the instance. Optional.
	Close func()
}

// Factory creates a fresh Instance. It is called once per session and once
// per shell page request.
type Factory func() (*Instance, error)

// Config configures a Hub.
type Config struct {
	// ReadTimeout closes sessions that stay silent, pongs included, for longer.
	ReadTimeout time.Duration

	// WriteTimeout bounds every write.
	WriteTimeout time.Duration

	// PingInterval is the heartbeat period. It must be below ReadTimeout.
	PingInterval time.Duration

	// MaxMessageSize bounds client messages in bytes.
	MaxMessageSize int64

	// CheckOrigin validates upgrade requests. Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger

	// Metrics, when set, counts sessions and sent patches.
	Metrics *middleware.Metrics
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   25 * time.Second,
		MaxMessageSize: 4096,
		CheckOrigin:    SameOriginCheck,
	}
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && originURL.Host == r.Host
}

// AllowOrigins returns a CheckOrigin accepting same-origin requests plus
// the listed origins.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		return allowed[r.Header.Get("Origin")] || SameOriginCheck(r)
	}
}

// Hub accepts WebSocket connections and tracks their sessions.
type Hub struct {
	factory  Factory
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a hub creating one Instance per session with factory.
// Zero fields of config take their DefaultConfig values.
func NewHub(factory Factory, config Config) *Hub {
	defaults := DefaultConfig()
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = defaults.MaxMessageSize
	}
	if config.CheckOrigin == nil {
		config.CheckOrigin = defaults.CheckOrigin
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		factory: factory,
		config:  config,
		logger:  logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the connection and runs a session until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	inst, err := h.factory()
	if err != nil {
		h.logger.Error("session instance failed", "error", err)
		http.Error(w, "preview unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", "error", err)
		if inst.Close != nil {
			inst.Close()
		}
		return
	}

	s := newSession(uuid.NewString(), h, conn, inst)
	h.add(s)
	defer h.remove(s)

	s.run()
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	n := len(h.sessions)
	h.mu.Unlock()

	if h.config.Metrics != nil {
		h.config.Metrics.SessionOpened()
	}
	h.logger.Info("session opened", "session", s.ID, "sessions", n)
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	n := len(h.sessions)
	h.mu.Unlock()

	if !ok {
		return
	}
	if h.config.Metrics != nil {
		h.config.Metrics.SessionClosed()
	}
	h.logger.Info("session closed", "session", s.ID, "sessions", n)
}

// Session returns a connected session by ID.
func (h *Hub) Session(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close closes every session.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
