package realtime

import (
	"context"
	"encoding/json"
)

// Transport carries realtime events between this client and its peers
type Transport interface {
	Emit(ctx context.Context, event string, payload interface{}) error
	On(event string, handler func(json.RawMessage))
}

// LocalTransport is a Transport without peers. Emits are dropped and no inbound events arrive.
type LocalTransport struct{}

func (LocalTransport) Emit(context.Context, string, interface{}) error { return nil }

func (LocalTransport) On(string, func(json.RawMessage)) {}
