package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Manager.
type Options struct {
	URL            string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	ReconnectMin   time.Duration
	ReconnectMax   time.Duration
}

func (o *Options) applyDefaults() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.ReconnectMin <= 0 {
		o.ReconnectMin = time.Second
	}
	if o.ReconnectMax < o.ReconnectMin {
		o.ReconnectMax = 30 * o.ReconnectMin
	}
}

// Manager owns the single shared session to the ledger network. It is
// created once at startup and passed to whoever needs ledger access.
type Manager struct {
	opts   Options
	logger *zap.Logger

	group singleflight.Group

	mu       sync.Mutex
	conn     *Conn
	released bool

	dials atomic.Int64
	wake  chan struct{}
}

func NewManager(opts Options, logger *zap.Logger) *Manager {
	opts.applyDefaults()
	return &Manager{
		opts:   opts,
		logger: logger.Named("ledger"),
		wake:   make(chan struct{}, 1),
	}
}

// Acquire returns the connected session, dialing if there is none. Concurrent
// callers share one dial. A dial failure is returned as *ConnectionError.
func (m *Manager) Acquire(ctx context.Context) (*Conn, error) {
	if c := m.current(); c != nil {
		return c, nil
	}

	ch := m.group.DoChan("dial", func() (any, error) {
		return m.dial()
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Conn), nil
	case <-ctx.Done():
		return nil, &ConnectionError{URL: m.opts.URL, Err: ctx.Err()}
	}
}

// Release closes the session. It is idempotent; a later Acquire dials again.
func (m *Manager) Release() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.released = true
	m.mu.Unlock()

	m.signal()
	if conn == nil {
		return nil
	}
	m.logger.Info("releasing ledger connection", zap.String("url", m.opts.URL))
	return conn.Close()
}

// Connected reports whether a live session exists.
func (m *Manager) Connected() bool {
	return m.current() != nil
}

// Dials returns how many sessions have been established.
func (m *Manager) Dials() int64 {
	return m.dials.Load()
}

func (m *Manager) URL() string {
	return m.opts.URL
}

// Supervise keeps the session alive until ctx is done: it connects eagerly,
// and when the session drops for a reason other than Release it redials with
// exponential back-off between ReconnectMin and ReconnectMax.
func (m *Manager) Supervise(ctx context.Context) error {
	for {
		m.mu.Lock()
		conn := m.conn
		released := m.released
		m.mu.Unlock()

		if !released && (conn == nil || !conn.IsConnected()) {
			if err := m.reconnect(ctx); err != nil {
				return nil
			}
			continue
		}

		var done <-chan struct{}
		if !released {
			done = conn.Done()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-m.wake:
		case <-done:
			if !conn.Intentional() {
				m.logger.Warn("ledger connection lost", zap.String("url", m.opts.URL), zap.Error(conn.Err()))
			}
		}
	}
}

func (m *Manager) reconnect(ctx context.Context) error {
	delay := m.opts.ReconnectMin
	for attempt := 1; ; attempt++ {
		if m.isReleased() {
			return nil
		}
		_, err := m.Acquire(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger.Warn("ledger reconnect failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > m.opts.ReconnectMax {
			delay = m.opts.ReconnectMax
		}
	}
}

func (m *Manager) dial() (*Conn, error) {
	if c := m.current(); c != nil {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.DialTimeout)
	defer cancel()

	conn, err := Dial(ctx, m.opts.URL, m.opts.RequestTimeout, m.logger)
	if err != nil {
		return nil, &ConnectionError{URL: m.opts.URL, Err: err}
	}
	m.dials.Add(1)

	m.mu.Lock()
	old := m.conn
	m.conn = conn
	m.released = false
	m.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	m.signal()
	m.logger.Info("connected to ledger", zap.String("url", m.opts.URL))
	return conn, nil
}

func (m *Manager) current() *Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil && m.conn.IsConnected() {
		return m.conn
	}
	return nil
}

func (m *Manager) isReleased() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

func (m *Manager) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
