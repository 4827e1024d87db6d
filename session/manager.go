package session

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/protocol"
)

type ManagerOptions struct {
	SendQueueSize int // events buffered per connection before it is dropped
	WriteTimeout  time.Duration
	PingInterval  time.Duration
	PongTimeout   time.Duration
	MaxMessage    int64
}

func NewManagerOptions() *ManagerOptions {
	return &ManagerOptions{
		SendQueueSize: 256,
		WriteTimeout:  10 * time.Second,
		PingInterval:  30 * time.Second,
		PongTimeout:   60 * time.Second,
		MaxMessage:    4096,
	}
}

type ManagerOpt func(*Manager)

func WithManagerLogger(logger *logrus.Entry) ManagerOpt {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithManagerOptions(options *ManagerOptions) ManagerOpt {
	return func(m *Manager) {
		m.options = options
	}
}

// Manager relays commands from websocket connections to the table engine and
// engine events back to the connections, in emission order per connection.
type Manager struct {
	engine   blackjacktable.TableEngine
	auth     *Authenticator
	options  *ManagerOptions
	logger   *logrus.Entry
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	conns    map[*conn]struct{}
	players  map[string]*conn // arrived connections by player id
}

func NewManager(engine blackjacktable.TableEngine, auth *Authenticator, opts ...ManagerOpt) *Manager {
	m := &Manager{
		engine:  engine,
		auth:    auth,
		options: NewManagerOptions(),
		logger:  logrus.WithField("component", "session"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns:   make(map[*conn]struct{}),
		players: make(map[string]*conn),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

/*
Dispatch relays an engine event to the connections
  - private events only go to the addressed player
  - a connection whose queue is full is dropped
*/
func (m *Manager) Dispatch(ev *blackjacktable.Event) {
	data, err := protocol.Encode(protocol.MessageType(ev.Type), "", ev)
	if err != nil {
		m.logger.WithError(err).Error("failed to encode event")
		return
	}

	m.mu.RLock()
	targets := make([]*conn, 0, len(m.players))
	if ev.To != "" {
		if c, ok := m.players[ev.To]; ok {
			targets = append(targets, c)
		}
	} else {
		for _, c := range m.players {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(data) {
			m.logger.WithField("player", c.playerID()).Warn("send queue full, dropping connection")
			c.close()
		}
	}
}

// Router serves the HTTP surface of the table.
func (m *Manager) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Post("/authenticate", m.handleAuthenticate)
	r.Get("/table", m.handleTable)
	r.Get("/ws", m.HandleWS)

	return r
}

func (m *Manager) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := newConn(m, ws)

	m.mu.Lock()
	m.conns[c] = struct{}{}
	m.mu.Unlock()

	m.logger.WithField("remote", r.RemoteAddr).Debug("connection opened")

	go c.writePump()
	go c.readPump()
}

// Close drops every connection.
func (m *Manager) Close() {
	m.mu.RLock()
	conns := make([]*conn, 0, len(m.conns))
	for c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.close()
	}
}

// ConnectedPlayers returns the number of arrived connections.
func (m *Manager) ConnectedPlayers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

func (m *Manager) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var payload protocol.AuthenticatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.ErrorPayload{
			Code:    protocol.ErrorCode_ProtocolViolation,
			Message: err.Error(),
		})
		return
	}

	ticket, err := m.auth.Authenticate(payload.Name, payload.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, protocol.ErrorPayload{
			Code:    ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

func (m *Manager) handleTable(w http.ResponseWriter, r *http.Request) {
	table, err := m.engine.GetTable()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, protocol.ErrorPayload{
			Code:    ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, table)
}

// arrive binds the connection to a player before the engine admits it, so
// that READY reaches the connection.
func (m *Manager) arrive(c *conn, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exist := m.players[playerID]; exist {
		return ErrAlreadyConnected
	}

	m.players[playerID] = c
	return nil
}

func (m *Manager) release(playerID string, c *conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.players[playerID] == c {
		delete(m.players, playerID)
	}
}

func (m *Manager) depart(c *conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.conns, c)
	if pid := c.playerID(); pid != "" && m.players[pid] == c {
		delete(m.players, pid)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
