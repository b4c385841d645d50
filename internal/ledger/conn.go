package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 8 << 20
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
)

// Conn is one WebSocket session with a rippled-compatible server. Requests
// may be issued concurrently; responses are matched to requests by id.
type Conn struct {
	url            string
	ws             *websocket.Conn
	logger         *zap.Logger
	requestTimeout time.Duration

	writeMu sync.Mutex

	mu          sync.Mutex
	pending     map[uint64]chan envelope
	err         error
	intentional bool

	nextID    atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
}

// envelope is the top level of every server message.
type envelope struct {
	ID           *uint64         `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorCode    int             `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

// Dial opens a session. requestTimeout bounds each Request in addition to
// the caller's context; zero disables it.
func Dial(ctx context.Context, url string, requestTimeout time.Duration, logger *zap.Logger) (*Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 15 * time.Second,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	c := &Conn{
		url:            url,
		ws:             ws,
		logger:         logger,
		requestTimeout: requestTimeout,
		pending:        make(map[uint64]chan envelope),
		done:           make(chan struct{}),
	}
	go c.readLoop()
	go c.keepalive()
	return c, nil
}

// Request sends command with params and decodes the "result" object into
// result, which may be nil. Server-side failures come back as *RPCError,
// transport failures and timeouts as *NetworkError.
func (c *Conn) Request(ctx context.Context, command string, params map[string]any, result any) error {
	id := c.nextID.Add(1)

	msg := make(map[string]any, len(params)+2)
	for k, v := range params {
		msg[k] = v
	}
	msg["id"] = id
	msg["command"] = command

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", command, err)
	}

	ch := make(chan envelope, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return &NetworkError{Command: command, Err: err}
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(payload); err != nil {
		c.fail(err)
		return &NetworkError{Command: command, Err: err}
	}

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	select {
	case env := <-ch:
		if env.Status == "error" || env.Error != "" {
			return &RPCError{
				Code:    env.ErrorCode,
				Err:     env.Error,
				Message: env.ErrorMessage,
				Command: command,
			}
		}
		if result != nil && len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, result); err != nil {
				return fmt.Errorf("decode %s response: %w", command, err)
			}
		}
		return nil
	case <-c.done:
		return &NetworkError{Command: command, Err: c.Err()}
	case <-ctx.Done():
		return &NetworkError{Command: command, Err: ctx.Err()}
	}
}

// Done is closed when the session ends for any reason.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns why the session ended, or nil while it is open.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Intentional reports whether the session was ended by Close.
func (c *Conn) Intentional() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intentional
}

func (c *Conn) IsConnected() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Close ends the session. Pending requests fail with ErrClosed.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = ErrClosed
		c.intentional = true
		c.mu.Unlock()

		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		close(c.done)
		_ = c.ws.Close()
	})
	return nil
}

func (c *Conn) fail(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) write(p []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, p)
}

func (c *Conn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ledger connection read failed", zap.String("url", c.url), zap.Error(err))
			}
			c.fail(err)
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Debug("discarding undecodable ledger message", zap.Error(err))
			continue
		}
		// Stream messages (ledgerClosed, transaction, ...) carry no id.
		if env.ID == nil || (env.Type != "" && env.Type != "response") {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*env.ID]
		delete(c.pending, *env.ID)
		c.mu.Unlock()
		if ok {
			ch <- env
		}
	}
}

func (c *Conn) keepalive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("ledger ping failed", zap.String("url", c.url), zap.Error(err))
				c.fail(err)
				return
			}
		}
	}
}
