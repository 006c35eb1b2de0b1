package vrpipe

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
)

// MessageType mirrors the frame payload kinds the transport can deliver.
type MessageType int

const (
	// MessageText is a UTF-8 text frame.
	MessageText MessageType = iota + 1
	// MessageBinary is a binary frame.
	MessageBinary
)

// Transport is one physical connection to the pipeline endpoint. The client
// only ever talks to this interface, which keeps the lifecycle logic
// independent of the WebSocket library and lets tests drive the client with
// a scripted fake.
type Transport interface {
	// Read blocks until the next inbound frame, the context is cancelled, or
	// the connection closes. After Close it returns an error.
	Read(ctx context.Context) (MessageType, []byte, error)

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// DialConfig carries the per-connection parameters a Dialer needs beyond the
// endpoint URL.
type DialConfig struct {
	// UserAgent is sent on the connection handshake.
	UserAgent string
	// OnPing, if non-nil, is invoked whenever a transport-level liveness ping
	// arrives from the remote end.
	OnPing func()
}

// Dialer opens a Transport to the given endpoint. The default is
// WebSocketDialer; tests substitute fakes.
type Dialer func(ctx context.Context, endpoint string, cfg DialConfig) (Transport, error)

// maxFrameSize bounds a single inbound frame. Pipeline events are small, but
// V2 notifications with embedded response metadata can exceed the WebSocket
// library's 32KiB default.
const maxFrameSize = 1 << 20

// WebSocketDialer is the production Dialer, backed by coder/websocket.
func WebSocketDialer(ctx context.Context, endpoint string, cfg DialConfig) (Transport, error) {
	opts := &websocket.DialOptions{
		HTTPHeader: map[string][]string{
			"User-Agent": {cfg.UserAgent},
		},
	}
	if cfg.OnPing != nil {
		onPing := cfg.OnPing
		opts.OnPingReceived = func(ctx context.Context, payload []byte) bool {
			onPing()
			return true
		}
	}

	conn, _, err := websocket.Dial(ctx, endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to dial pipeline endpoint: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)

	return &wsTransport{conn: conn}, nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Read(ctx context.Context) (MessageType, []byte, error) {
	typ, data, err := t.conn.Read(ctx)
	if err != nil {
		return 0, nil, err
	}

	switch typ {
	case websocket.MessageText:
		return MessageText, data, nil
	case websocket.MessageBinary:
		return MessageBinary, data, nil
	default:
		return 0, data, nil
	}
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "client shutdown")
}
