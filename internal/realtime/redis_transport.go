package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// redisFrame is the message published on the relay channel
type redisFrame struct {
	Origin string          `json:"origin"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// RedisTransport relays events between clients through a redis pub/sub channel.
// Client events are published under the server event name peers listen for, and
// every instance drops the frames it published itself.
type RedisTransport struct {
	client  *redis.Client
	channel string
	origin  string
	logger  *zap.Logger

	handlersMu sync.RWMutex
	handlers   map[string][]func(json.RawMessage)

	ready chan struct{}
	once  sync.Once
}

// NewRedisTransport creates a transport on the given channel. Call Run to subscribe.
func NewRedisTransport(client *redis.Client, channel string, logger *zap.Logger) *RedisTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTransport{
		client:   client,
		channel:  channel,
		origin:   uuid.NewString(),
		logger:   logger,
		handlers: make(map[string][]func(json.RawMessage)),
		ready:    make(chan struct{}),
	}
}

// Origin returns the id this instance stamps on its frames
func (t *RedisTransport) Origin() string {
	return t.origin
}

// Ready is closed once the subscription is confirmed
func (t *RedisTransport) Ready() <-chan struct{} {
	return t.ready
}

func (t *RedisTransport) On(event string, handler func(json.RawMessage)) {
	t.handlersMu.Lock()
	t.handlers[event] = append(t.handlers[event], handler)
	t.handlersMu.Unlock()
}

// Emit publishes a client event. Room joins have no meaning on a single channel and are dropped.
func (t *RedisTransport) Emit(ctx context.Context, event string, payload interface{}) error {
	serverEvent, ok := ServerEventFor(event)
	if !ok {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(redisFrame{Origin: t.origin, Event: serverEvent, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", event, err)
	}

	if err := t.client.Publish(ctx, t.channel, frame).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", serverEvent, err)
	}
	return nil
}

// Run subscribes to the channel and dispatches peer frames until ctx is done
func (t *RedisTransport) Run(ctx context.Context) error {
	pubsub := t.client.Subscribe(ctx, t.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", t.channel, err)
	}
	t.once.Do(func() { close(t.ready) })
	t.logger.Info("Subscribed to realtime channel", zap.String("channel", t.channel), zap.String("origin", t.origin))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			t.handle(msg.Payload)
		}
	}
}

func (t *RedisTransport) handle(payload string) {
	var frame redisFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		t.logger.Warn("Failed to parse relay frame", zap.Error(err))
		return
	}
	if frame.Origin == t.origin {
		return
	}

	t.handlersMu.RLock()
	handlers := append(([]func(json.RawMessage))(nil), t.handlers[frame.Event]...)
	t.handlersMu.RUnlock()

	for _, h := range handlers {
		h(frame.Data)
	}
}
