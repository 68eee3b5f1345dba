package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trellone-sync/internal/metrics"
)

// Local events dispatched by Run
const (
	// EventConnect follows every successful dial, the first one included
	EventConnect = "connect"
	// EventReconnect follows EventConnect when the connection was re-established
	EventReconnect = "reconnect"
)

const maxMessageSize = 1 << 20

var (
	ErrNotConnected   = errors.New("socket not connected")
	ErrSendBufferFull = errors.New("socket send buffer full")
)

// Envelope is the wire frame of every socket event
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Config configures the socket client
type Config struct {
	URL                  string
	Header               http.Header
	WriteWait            time.Duration
	PongWait             time.Duration
	MaxReconnectInterval time.Duration
	SendBuffer           int
}

func (c *Config) withDefaults() {
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.MaxReconnectInterval <= 0 {
		c.MaxReconnectInterval = 30 * time.Second
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 256
	}
}

// Client is a reconnecting websocket client speaking {event, data} frames
type Client struct {
	cfg     Config
	dialer  *websocket.Dialer
	logger  *zap.Logger
	metrics *metrics.Metrics

	handlersMu sync.RWMutex
	handlers   map[string][]func(json.RawMessage)

	send      chan []byte
	connected atomic.Bool
}

// New creates a client. Call Run to connect.
func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:      cfg,
		dialer:   websocket.DefaultDialer,
		logger:   logger,
		metrics:  m,
		handlers: make(map[string][]func(json.RawMessage)),
		send:     make(chan []byte, cfg.SendBuffer),
	}
}

// On registers a handler for an inbound event. Handlers run on the read goroutine.
func (c *Client) On(event string, handler func(json.RawMessage)) {
	c.handlersMu.Lock()
	c.handlers[event] = append(c.handlers[event], handler)
	c.handlersMu.Unlock()
}

// Emit queues an event for sending
func (c *Client) Emit(ctx context.Context, event string, payload interface{}) error {
	if !c.connected.Load() {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", event, err)
	}

	select {
	case c.send <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendBufferFull
	}
}

// Connected reports whether the socket is currently up
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run dials and serves the connection until ctx is done, re-dialing with exponential backoff
func (c *Client) Run(ctx context.Context) error {
	first := true
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			return err
		}

		c.connected.Store(true)
		c.metrics.SetSocketConnected(true)
		c.logger.Info("Socket connected", zap.String("url", c.cfg.URL), zap.Bool("reconnect", !first))

		c.dispatch(EventConnect, nil)
		if !first {
			c.metrics.IncrementSocketReconnects()
			c.dispatch(EventReconnect, nil)
		}
		first = false

		err = c.serve(ctx, conn)

		c.connected.Store(false)
		c.metrics.SetSocketConnected(false)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("Socket disconnected", zap.Error(err))
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = c.cfg.MaxReconnectInterval
	b.MaxElapsedTime = 0

	var conn *websocket.Conn
	op := func() error {
		var resp *http.Response
		var err error
		conn, resp, err = c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
		if err != nil {
			if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
				return backoff.Permanent(fmt.Errorf("socket handshake rejected: %s", resp.Status))
			}
			return err
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Socket dial failed, retrying",
			zap.String("url", c.cfg.URL),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return conn, nil
}

// serve runs the pumps for one connection and returns when it drops
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	writeErr := make(chan error, 1)
	go func() {
		writeErr <- c.writePump(ctx, conn, done)
	}()

	err := c.readPump(conn)
	close(done)
	if werr := <-writeErr; err == nil {
		err = werr
	}
	return err
}

func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
	// Server pings also keep the read deadline alive
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.cfg.WriteWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("Socket read error", zap.Error(err))
			}
			return err
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Warn("Failed to parse socket frame", zap.Error(err))
			continue
		}
		c.dispatch(env.Event, env.Data)
	}
}

func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) error {
	ticker := time.NewTicker(c.cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return err
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}

		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteWait))
			return nil

		case <-done:
			return nil
		}
	}
}

func (c *Client) dispatch(event string, data json.RawMessage) {
	c.handlersMu.RLock()
	handlers := append(([]func(json.RawMessage))(nil), c.handlers[event]...)
	c.handlersMu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for socket event", zap.String("event", event))
		return
	}
	for _, h := range handlers {
		h(data)
	}
}
