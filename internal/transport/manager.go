// internal/transport/manager.go

// Package transport owns the websocket link to the game server: one
// physical connection at a time, exponential-backoff reconnection, and
// send gating on link readiness. Inbound frames are decoded and handed
// to a message callback in delivery order, one at a time.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thben/clearthedeck-client/internal/metrics"
	"github.com/thben/clearthedeck-client/internal/protocol"
)

// Reconnection backoff defaults; both are tunable via Options.
const (
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultCapDelay  = 4 * time.Second
)

const (
	defaultDialTimeout = 10 * time.Second
	writeTimeout       = 5 * time.Second
)

var (
	// ErrNotOpen is returned by Send while the link is not open. The
	// message is dropped, never queued; callers re-issue intents after
	// reconnection if still relevant.
	ErrNotOpen = errors.New("transport: connection not open")

	// ErrClosed is returned once the manager has been torn down.
	ErrClosed = errors.New("transport: manager closed")
)

// Conn is the slice of *websocket.Conn the manager uses; tests
// substitute fakes.
type Conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// DialFunc establishes one physical connection to the endpoint.
type DialFunc func(ctx context.Context, url string) (Conn, error)

func defaultDial(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MessageHandler receives decoded inbound messages in delivery order.
type MessageHandler func(*protocol.ServerMessage)

// StateHandler observes connection state transitions.
type StateHandler func(ConnectionState)

// Options configures a Manager. URL is required; everything else has a
// default.
type Options struct {
	URL         string
	BaseDelay   time.Duration
	CapDelay    time.Duration
	DialTimeout time.Duration
	Dial        DialFunc
	Logger      *logrus.Logger
	Metrics     *metrics.Metrics

	OnMessage     MessageHandler
	OnStateChange StateHandler
}

// Manager maintains at most one live connection to the endpoint and
// hides reconnection churn from callers. All methods return
// immediately; effects surface through callbacks and State.
type Manager struct {
	opts Options
	log  *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	conn           Conn
	status         Status
	attempt        int
	lastErr        error
	gen            int // bumped per physical connection; stale loops ignore themselves
	dialing        bool
	retryScheduled bool
	retryTimer     *time.Timer
	closed         bool
}

// NewManager builds a manager for the endpoint. The manager starts
// without a link; call Connect to establish one.
func NewManager(opts Options) *Manager {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.CapDelay <= 0 {
		opts.CapDelay = DefaultCapDelay
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.Dial == nil {
		opts.Dial = defaultDial
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:   opts,
		log:    opts.Logger.WithField("session", uuid.NewString()),
		ctx:    ctx,
		cancel: cancel,
		status: StatusClosed,
	}
}

// Connect establishes the link. Idempotent: concurrent or repeated
// calls while a connection exists or is being established do nothing.
func (m *Manager) Connect() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.conn != nil || m.dialing || m.retryScheduled {
		m.mu.Unlock()
		return nil
	}
	m.dialing = true
	m.gen++
	gen := m.gen
	st := m.setStatusLocked(StatusConnecting)
	m.mu.Unlock()

	m.notify(st)
	go m.dial(gen)
	return nil
}

// Send serializes the message and transmits it if the link is open.
// Messages are dropped with ErrNotOpen otherwise.
func (m *Manager) Send(v interface{}) error {
	m.mu.Lock()
	if m.status != StatusOpen || m.conn == nil {
		m.mu.Unlock()
		m.opts.Metrics.IncSendsDropped()
		m.log.Warn("send dropped: connection not open")
		return ErrNotOpen
	}
	conn := m.conn
	m.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(m.ctx, writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		m.log.WithError(err).Warn("websocket write failed")
		return err
	}
	return nil
}

// State returns a snapshot of the link state.
func (m *Manager) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Close tears the manager down: cancels any pending reconnection timer,
// closes the live socket, and stops all further reconnection attempts.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.gen++
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	m.retryScheduled = false
	conn := m.conn
	m.conn = nil
	st := m.setStatusLocked(StatusClosed)
	m.mu.Unlock()

	m.cancel()
	m.notify(st)
	var err error
	if conn != nil {
		err = conn.Close(websocket.StatusNormalClosure, "client closed")
	}
	m.log.Info("transport closed")
	return err
}

func (m *Manager) dial(gen int) {
	dialCtx, cancel := context.WithTimeout(m.ctx, m.opts.DialTimeout)
	conn, err := m.opts.Dial(dialCtx, m.opts.URL)
	cancel()

	m.mu.Lock()
	m.dialing = false
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		if err == nil {
			conn.Close(websocket.StatusNormalClosure, "superseded")
		}
		return
	}
	if err != nil {
		m.lastErr = err
		m.log.WithError(err).Warn("dial failed")
		st := m.scheduleReconnectLocked()
		m.mu.Unlock()
		m.notify(st)
		return
	}

	m.conn = conn
	m.attempt = 0
	m.lastErr = nil
	st := m.setStatusLocked(StatusOpen)
	m.mu.Unlock()

	m.opts.Metrics.IncConnects()
	m.log.WithField("url", m.opts.URL).Info("connected")
	m.notify(st)
	go m.readLoop(conn, gen)
}

// readLoop reads frames until the connection dies. Decoded messages are
// delivered inline, so the dispatcher processes them one at a time in
// delivery order.
func (m *Manager) readLoop(conn Conn, gen int) {
	for {
		typ, data, err := conn.Read(m.ctx)
		if err != nil {
			m.handleDisconnect(gen, err)
			return
		}
		if typ != websocket.MessageText {
			m.log.Warnf("ignoring non-text frame of type %d", typ)
			continue
		}
		m.opts.Metrics.IncMessagesReceived()

		msg, err := protocol.Decode(data)
		if err != nil {
			m.opts.Metrics.IncDecodeErrors()
			m.log.WithError(err).Warn("dropping undecodable frame")
			continue
		}
		if m.opts.OnMessage != nil {
			m.opts.OnMessage(msg)
		}
	}
}

func (m *Manager) handleDisconnect(gen int, err error) {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.lastErr = err
	m.log.WithError(err).Warn("connection lost")
	st := m.scheduleReconnectLocked()
	m.mu.Unlock()
	m.notify(st)
}

// scheduleReconnectLocked arms the reconnection timer. The
// retryScheduled guard keeps a close and an error double-fire on the
// same socket from arming two timers.
func (m *Manager) scheduleReconnectLocked() ConnectionState {
	if m.closed || m.retryScheduled {
		return m.stateLocked()
	}
	delay := backoffDelay(m.attempt, m.opts.BaseDelay, m.opts.CapDelay)
	m.attempt++
	m.retryScheduled = true
	m.status = StatusReconnecting
	m.opts.Metrics.IncReconnectAttempts()
	m.log.WithFields(logrus.Fields{
		"attempt": m.attempt,
		"delay":   delay,
	}).Info("reconnect scheduled")
	m.retryTimer = time.AfterFunc(delay, m.retryFire)
	return m.stateLocked()
}

func (m *Manager) retryFire() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.retryScheduled = false
	m.dialing = true
	m.gen++
	gen := m.gen
	st := m.setStatusLocked(StatusConnecting)
	m.mu.Unlock()

	m.notify(st)
	m.dial(gen)
}

func (m *Manager) setStatusLocked(s Status) ConnectionState {
	m.status = s
	return m.stateLocked()
}

func (m *Manager) stateLocked() ConnectionState {
	return ConnectionState{Status: m.status, Attempt: m.attempt, LastError: m.lastErr}
}

func (m *Manager) notify(st ConnectionState) {
	if m.opts.OnStateChange != nil {
		m.opts.OnStateChange(st)
	}
}

// backoffDelay is min(base * 2^attempt, cap).
func backoffDelay(attempt int, base, cap time.Duration) time.Duration {
	if attempt > 30 {
		return cap
	}
	d := base << uint(attempt)
	if d > cap || d <= 0 {
		return cap
	}
	return d
}
