package pushchannel

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/pkg/logger"

	"github.com/fasthttp/websocket"
)

const (
	closeWait      = time.Second
	maxMessageSize = 1 << 20
)

type Config struct {
	BaseURL              string
	ReconnectBaseDelay   time.Duration
	MaxReconnectAttempts int
	Dialer               *websocket.Dialer
}

func (c Config) withDefaults() Config {
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = constant.DefaultReconnectBaseDelay
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = constant.DefaultMaxReconnectAttempts
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	return c
}

// SessionURL builds the push endpoint for a session.
func SessionURL(baseURL, sessionId string) string {
	return strings.TrimRight(baseURL, "/") + "/sessions/" + url.PathEscape(sessionId)
}

// Channel is a long-lived push connection for one permanent session id. It reconnects
// after abnormal closes with a linearly growing delay and gives up after
// MaxReconnectAttempts consecutive failures.
type Channel struct {
	sessionId string
	url       string
	cfg       Config
	handler   Handler
	logger    logger.ILogger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool
}

// Open starts the connection loop in the background and returns immediately.
func Open(cfg Config, sessionId string, handler Handler, log logger.ILogger) *Channel {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Channel{
		sessionId: sessionId,
		url:       SessionURL(cfg.BaseURL, sessionId),
		cfg:       cfg,
		handler:   handler,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Channel) SessionId() string {
	return c.sessionId
}

// Connected reports whether a socket is currently open.
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// Done is closed once the channel stops for good (Close or reconnect ceiling).
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close sends a normal closure and waits for the loop to exit.
// It must not be called from the Handler.
func (c *Channel) Close() {
	c.cancel()

	c.mu.Lock()
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Client disconnect")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	<-c.done
}

func (c *Channel) run() {
	defer close(c.done)

	attempts := 0
	for {
		code := c.connectOnce()
		if c.ctx.Err() != nil {
			return
		}
		if code == websocket.CloseNormalClosure {
			c.logger.Info("PushChannel", "Closed by server", map[string]interface{}{"session_id": c.sessionId})
			return
		}
		if code != 0 {
			// The socket was open, so the failure streak starts over.
			attempts = 0
		}

		attempts++
		if attempts > c.cfg.MaxReconnectAttempts {
			c.logger.Warn("PushChannel", "Reconnect attempts exhausted", map[string]interface{}{
				"session_id": c.sessionId,
				"attempts":   c.cfg.MaxReconnectAttempts,
			})
			return
		}

		delay := c.cfg.ReconnectBaseDelay * time.Duration(attempts)
		c.logger.Info("PushChannel", "Reconnecting", map[string]interface{}{
			"session_id": c.sessionId,
			"attempt":    attempts,
			"max":        c.cfg.MaxReconnectAttempts,
			"delay":      delay.String(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-c.ctx.Done():
			timer.Stop()
			return
		}
	}
}

// connectOnce dials and reads until the socket closes. It returns 0 when the dial
// itself failed, otherwise the close code.
func (c *Channel) connectOnce() int {
	conn, _, err := c.cfg.Dialer.DialContext(c.ctx, c.url, nil)
	if err != nil {
		if c.ctx.Err() == nil {
			c.logger.Warn("PushChannel", "Dial failed", map[string]interface{}{"session_id": c.sessionId, "error": err.Error()})
		}
		return 0
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return websocket.CloseNormalClosure
	}
	c.conn = conn
	c.mu.Unlock()

	c.connected.Store(true)
	c.logger.Info("PushChannel", "Connected", map[string]interface{}{"session_id": c.sessionId})

	code := c.readLoop(conn)

	c.connected.Store(false)
	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()

	return code
}

func (c *Channel) readLoop(conn *websocket.Conn) int {
	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return closeErr.Code
			}
			if c.ctx.Err() == nil {
				c.logger.Warn("PushChannel", "Read failed", map[string]interface{}{"session_id": c.sessionId, "error": err.Error()})
			}
			return websocket.CloseAbnormalClosure
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("PushChannel", "Failed to parse message", map[string]interface{}{"session_id": c.sessionId, "error": err.Error()})
			continue
		}
		c.handler(c.sessionId, msg)
	}
}
