// Package vrpipe is a typed client for the social-VR platform's realtime
// event pipeline. It holds one persistent WebSocket open, classifies the
// heterogeneous push protocol into typed events, filters them against a
// caller-declared subscription set, and recovers from transient failures
// with exponential backoff. Authentication rejections are terminal: the
// caller must re-authenticate and construct a new client.
package vrpipe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vrpipe/vrpipe/pkg/vrpipe/o11y"
)

// ErrAlreadyStarted is returned by Connect on a client that was already
// connected or closed. Clients are single-use.
var ErrAlreadyStarted = errors.New("client is already started")

// errClientClosed signals that the client was shut down while a connection
// attempt was in flight.
var errClientClosed = errors.New("client is closed")

// Client is the pipeline event-stream client. Construct one with
// NewClient().Build(), then call Connect. All lifecycle state lives behind
// one mutex; handlers run synchronously on the read loop, so frames from one
// connection are processed strictly in arrival order.
type Client struct {
	creds     CredentialSource
	endpoint  string // explicit override; "" means derive from creds
	userAgent string
	dialer    Dialer
	logger    *zap.Logger
	disp      *dispatcher
	metrics   *clientMetrics
	tracing   o11y.TracingProvider

	dialTimeout      time.Duration
	watchdogInterval time.Duration
	livenessTimeout  time.Duration
	maxBackoff       time.Duration
	backoffBase      time.Duration

	mu             sync.Mutex
	state          State
	transport      Transport
	connID         string
	attempts       int
	lastLiveness   time.Time
	reconnectTimer *time.Timer
	ctx            context.Context
	cancel         context.CancelFunc
}

// Connect opens the pipeline connection and starts the liveness watchdog.
// It blocks only for the initial dial; after it returns, the client keeps
// the connection alive in the background until Close or an authentication
// rejection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateReconnecting
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	if err := c.open(); err != nil {
		c.mu.Lock()
		if c.state == StateReconnecting {
			c.state = StateDisconnected
		}
		cancel := c.cancel
		c.mu.Unlock()
		cancel()
		return err
	}

	go c.watchdog()

	return nil
}

// Close shuts the client down. Terminal: it suppresses any pending
// reconnect and the client cannot be reused. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateClosing {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	t := c.transport
	c.transport = nil
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if t != nil {
		t.Close()
	}

	c.metrics.connectionState(context.Background(), false)
	c.logger.Info("pipeline client closed")

	return nil
}

// OnEvent registers a handler for a category tag (atomic or meta).
// Registration is allowed after Connect; handlers registered for the same
// tag fire in registration order.
func (c *Client) OnEvent(tag string, h Handler) {
	if h != nil {
		c.disp.on(tag, h)
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AuthRejected reports whether the backend rejected the session credential.
// Once true the client never reconnects; the caller must re-authenticate
// and construct a new client.
func (c *Client) AuthRejected() bool {
	return c.State() == StateRejected
}

// LastLiveness returns the time the last liveness signal (frame or
// transport ping) was received. Callers can watch this go stale to detect
// silent outages the client is still retrying through.
func (c *Client) LastLiveness() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLiveness
}

// ConnectionID returns an opaque id for the current physical connection,
// for log correlation. It changes on every reconnect.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// open establishes one physical connection: resolve credentials, dial, and
// on success reset the attempt counter and start the read loop.
func (c *Client) open() error {
	endpoint, userAgent, label, err := c.connectionParams()
	if err != nil {
		return err
	}

	dialCtx, dialCancel := context.WithTimeout(c.ctx, c.dialTimeout)
	defer dialCancel()

	t, err := c.dialer(dialCtx, endpoint, DialConfig{
		UserAgent: userAgent,
		OnPing:    c.recordLiveness,
	})
	if err != nil {
		return fmt.Errorf("failed to open pipeline connection: %w", err)
	}

	c.mu.Lock()
	if c.state.terminal() {
		c.mu.Unlock()
		t.Close()
		return errClientClosed
	}
	c.state = StateOpen
	c.transport = t
	c.attempts = 0
	c.connID = uuid.NewString()
	c.lastLiveness = time.Now()
	connID := c.connID
	c.mu.Unlock()

	c.metrics.connectionState(c.ctx, true)
	c.logger.Info("pipeline connected",
		zap.String("connection", connID),
		zap.String("account", label))

	go c.readLoop(t, connID)

	return nil
}

// connectionParams resolves the endpoint URL and user-agent for one
// connection attempt. The token is re-read from the credential source each
// time so rotation is picked up on reconnect.
func (c *Client) connectionParams() (endpoint, userAgent, label string, err error) {
	userAgent = c.userAgent
	label = "custom-endpoint"

	if c.creds != nil {
		label = c.creds.Label()
		if userAgent == "" {
			userAgent = c.creds.UserAgent()
		}
	}

	if c.endpoint != "" {
		return c.endpoint, userAgent, label, nil
	}

	token, err := c.creds.SessionToken()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to resolve session token: %w", err)
	}
	endpoint = fmt.Sprintf("wss://%s/?authToken=%s", defaultEndpointHost, url.QueryEscape(token))

	return endpoint, userAgent, label, nil
}

// readLoop consumes frames from one physical connection until it dies. Any
// received frame counts as a liveness signal.
func (c *Client) readLoop(t Transport, connID string) {
	ctx := c.ctx
	for {
		typ, data, err := t.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Debug("pipeline read ended",
					zap.String("connection", connID),
					zap.Error(err))
			}
			c.connectionLost(connID, err)
			return
		}

		c.recordLiveness()
		c.handleFrame(ctx, typ, data)
	}
}

// handleFrame runs the classify → decode → dispatch pipeline for one frame,
// synchronously.
func (c *Client) handleFrame(ctx context.Context, typ MessageType, data []byte) {
	c.metrics.frameReceived(ctx, len(data))

	if c.tracing != nil {
		var span o11y.Span
		ctx, span = c.tracing.StartSpan(ctx, "vrpipe.frame")
		defer span.End()
	}

	class, env := classify(typ, data)
	switch class {
	case classIgnore:
		c.logger.Debug("dropping frame with unexpected payload type",
			zap.Int("messageType", int(typ)))

	case classFatal:
		c.metrics.fatalFrame(ctx)
		c.disp.dispatch(ctx, TagError, &ErrorEvent{Message: env.Err, Raw: data})
		c.rejectAuth(env.Err)

	case classEvent:
		c.handleEvent(ctx, env, data)
	}
}

func (c *Client) handleEvent(ctx context.Context, env envelope, raw []byte) {
	decode, ok := eventRegistry[env.Type]
	if !ok {
		// Forward-compatibility path: a category this client doesn't model
		// yet. Observable, but not a connection-level failure.
		c.logger.Warn("unrecognized event category", zap.String("tag", env.Type))
		c.metrics.unknownCategory(ctx, env.Type)
		c.disp.dispatch(ctx, TagError, &ErrorEvent{
			Message: "unrecognized event category",
			Tag:     env.Type,
			Raw:     raw,
		})
		return
	}

	ev, err := decode(env.Content)
	if err != nil {
		// Malformed single event, not a connection-level failure.
		c.logger.Warn("dropping undecodable event payload",
			zap.String("tag", env.Type),
			zap.Error(err))
		c.metrics.decodeFailed(ctx, env.Type)
		return
	}

	if c.disp.dispatch(ctx, env.Type, ev) {
		c.metrics.eventDispatched(ctx, env.Type)
	} else {
		c.metrics.eventFiltered(ctx, env.Type)
	}
}

// rejectAuth handles a fatal protocol frame: the token is invalid, so
// retrying with it cannot succeed. Terminal.
func (c *Client) rejectAuth(reason string) {
	c.mu.Lock()
	if c.state.terminal() {
		c.mu.Unlock()
		return
	}
	c.state = StateRejected
	t := c.transport
	c.transport = nil
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	connID := c.connID
	c.mu.Unlock()

	c.metrics.connectionState(context.Background(), false)
	c.logger.Error("session rejected by pipeline, giving up",
		zap.String("reason", reason),
		zap.String("connection", connID))

	if t != nil {
		t.Close()
	}
}

// connectionLost reacts to a physical connection dying for any reason other
// than rejection or shutdown. It schedules exactly one reconnect; calls for
// a superseded connection or while a reconnect is already pending are no-ops.
func (c *Client) connectionLost(connID string, cause error) {
	c.mu.Lock()
	if c.state != StateOpen || c.connID != connID {
		c.mu.Unlock()
		return
	}
	c.state = StateReconnecting
	c.transport = nil
	delay := backoffDelay(c.attempts, c.backoffBase, c.maxBackoff)
	attempt := c.attempts + 1
	c.setReconnectTimerLocked(delay)
	c.mu.Unlock()

	c.metrics.connectionState(context.Background(), false)
	c.metrics.reconnectScheduled(context.Background())
	c.logger.Warn("pipeline connection lost, reconnecting",
		zap.String("connection", connID),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
		zap.Error(cause))
}

// setReconnectTimerLocked replaces the pending reconnect timer,
// cancel-then-set, so at most one is ever outstanding. Caller holds c.mu.
func (c *Client) setReconnectTimerLocked(delay time.Duration) {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	c.reconnectTimer = time.AfterFunc(delay, c.reconnect)
}

// reconnect is the timer callback: count the attempt, re-open with fresh
// connection parameters, and on failure reschedule with the next backoff
// step. There is no attempt cap; only rejection or Close stop the cycle.
func (c *Client) reconnect() {
	c.mu.Lock()
	if c.state != StateReconnecting {
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	if err := c.open(); err != nil {
		c.mu.Lock()
		if c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		delay := backoffDelay(c.attempts, c.backoffBase, c.maxBackoff)
		c.setReconnectTimerLocked(delay)
		c.mu.Unlock()

		c.metrics.reconnectScheduled(context.Background())
		c.logger.Warn("pipeline reconnect attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}
}

// backoffDelay computes the reconnect delay for the given completed attempt
// count: attempts² × base, capped at max.
func backoffDelay(attempts int, base, max time.Duration) time.Duration {
	d := time.Duration(attempts*attempts) * base
	if d > max {
		return max
	}
	return d
}

func (c *Client) recordLiveness() {
	c.mu.Lock()
	c.lastLiveness = time.Now()
	c.mu.Unlock()
}

// watchdog periodically checks that the remote end is still talking. The
// remote drives ping cadence; this only detects silence, it never sends
// pings itself.
func (c *Client) watchdog() {
	ticker := time.NewTicker(c.watchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.checkLiveness()
		}
	}
}

func (c *Client) checkLiveness() {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	silence := time.Since(c.lastLiveness)
	if silence <= c.livenessTimeout {
		c.mu.Unlock()
		return
	}
	t := c.transport
	connID := c.connID
	c.mu.Unlock()

	c.logger.Warn("no liveness signal within threshold, forcing reconnect",
		zap.String("connection", connID),
		zap.Duration("silence", silence))

	// Closing the transport unblocks the read loop, which schedules the
	// reconnect through the ordinary close path.
	if t != nil {
		t.Close()
	}
}
