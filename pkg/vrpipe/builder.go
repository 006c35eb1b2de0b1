package vrpipe

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vrpipe/vrpipe/pkg/vrpipe/o11y"
)

const (
	defaultDialTimeout      = 30 * time.Second
	defaultWatchdogInterval = 5 * time.Second
	defaultLivenessTimeout  = 60 * time.Second
	defaultMaxBackoff       = 10 * time.Second
)

// defaultEndpointHost is the platform's pipeline host. The full endpoint is
// wss://<host>/?authToken=<token>.
const defaultEndpointHost = "pipeline.vrchat.cloud"

type tagHandler struct {
	tag     string
	handler Handler
}

// ClientBuilder provides a fluent interface for constructing pipeline
// clients. Either a credential source or an explicit endpoint plus
// user-agent is required; everything else has defaults.
type ClientBuilder struct {
	creds            CredentialSource
	endpoint         string
	userAgent        string
	subscriptions    []string
	handlers         []tagHandler
	logger           *zap.Logger
	dialer           Dialer
	metricsProvider  o11y.MetricsProvider
	tracingProvider  o11y.TracingProvider
	dialTimeout      time.Duration
	watchdogInterval time.Duration
	livenessTimeout  time.Duration
	maxBackoff       time.Duration
}

// NewClient creates a new pipeline client builder.
func NewClient() *ClientBuilder {
	return &ClientBuilder{
		logger:           zap.NewNop(),
		dialer:           WebSocketDialer,
		dialTimeout:      defaultDialTimeout,
		watchdogInterval: defaultWatchdogInterval,
		livenessTimeout:  defaultLivenessTimeout,
		maxBackoff:       defaultMaxBackoff,
	}
}

// WithCredentials sets the credential source used to derive the endpoint and
// user-agent. The token is re-read from the source on every reconnect.
func (b *ClientBuilder) WithCredentials(creds CredentialSource) *ClientBuilder {
	b.creds = creds
	return b
}

// WithEndpoint sets an explicit endpoint URL, bypassing credential-derived
// endpoint construction. Requires WithUserAgent unless a credential source
// is also configured. Intended for testing and alternate deployments.
func (b *ClientBuilder) WithEndpoint(endpoint string) *ClientBuilder {
	b.endpoint = endpoint
	return b
}

// WithUserAgent overrides the user-agent from the credential source.
func (b *ClientBuilder) WithUserAgent(userAgent string) *ClientBuilder {
	b.userAgent = userAgent
	return b
}

// WithSubscriptions declares the event categories of interest, atomic or
// meta. Meta tags are expanded once, at Build. No tags means no filtering:
// every category is delivered.
func (b *ClientBuilder) WithSubscriptions(tags ...string) *ClientBuilder {
	b.subscriptions = append(b.subscriptions, tags...)
	return b
}

// OnEvent registers a handler for a category tag. Meta tags register the
// handler for every atomic member. Handlers fire in registration order.
func (b *ClientBuilder) OnEvent(tag string, h Handler) *ClientBuilder {
	if h != nil {
		b.handlers = append(b.handlers, tagHandler{tag: tag, handler: h})
	}
	return b
}

// WithLogger sets the logger for the client.
func (b *ClientBuilder) WithLogger(logger *zap.Logger) *ClientBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithDialer replaces the transport dialer. Tests use this to feed the
// client scripted frames without a network.
func (b *ClientBuilder) WithDialer(dialer Dialer) *ClientBuilder {
	if dialer != nil {
		b.dialer = dialer
	}
	return b
}

// WithDialTimeout sets the timeout for establishing one connection attempt.
func (b *ClientBuilder) WithDialTimeout(timeout time.Duration) *ClientBuilder {
	if timeout > 0 {
		b.dialTimeout = timeout
	}
	return b
}

// WithLivenessTimeout sets how long the remote may stay silent before the
// watchdog declares the connection dead. Default 60s.
func (b *ClientBuilder) WithLivenessTimeout(timeout time.Duration) *ClientBuilder {
	if timeout > 0 {
		b.livenessTimeout = timeout
	}
	return b
}

// WithWatchdogInterval sets how often the watchdog checks liveness.
// Default 5s.
func (b *ClientBuilder) WithWatchdogInterval(interval time.Duration) *ClientBuilder {
	if interval > 0 {
		b.watchdogInterval = interval
	}
	return b
}

// WithMetrics sets the metrics provider for the client.
func (b *ClientBuilder) WithMetrics(provider o11y.MetricsProvider) *ClientBuilder {
	b.metricsProvider = provider
	return b
}

// WithTracing sets the tracing provider; when set, each inbound frame is
// handled inside a span.
func (b *ClientBuilder) WithTracing(provider o11y.TracingProvider) *ClientBuilder {
	b.tracingProvider = provider
	return b
}

// IsValid checks that all required configuration is present.
func (b *ClientBuilder) IsValid() error {
	if b.creds == nil && (b.endpoint == "" || b.userAgent == "") {
		return fmt.Errorf("either a credential source or an explicit endpoint and user agent are required")
	}

	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.dialer == nil {
		b.dialer = WebSocketDialer
	}

	return nil
}

// Build creates the client. The subscription set is expanded here, once;
// the connection is not opened until Connect.
func (b *ClientBuilder) Build() (*Client, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	subs := NewSubscriptionSet(b.subscriptions...)
	disp := newDispatcher(subs, b.logger)
	for _, th := range b.handlers {
		disp.on(th.tag, th.handler)
	}

	c := &Client{
		creds:            b.creds,
		endpoint:         b.endpoint,
		userAgent:        b.userAgent,
		dialer:           b.dialer,
		logger:           b.logger,
		disp:             disp,
		metrics:          newClientMetrics(b.metricsProvider),
		tracing:          b.tracingProvider,
		dialTimeout:      b.dialTimeout,
		watchdogInterval: b.watchdogInterval,
		livenessTimeout:  b.livenessTimeout,
		maxBackoff:       b.maxBackoff,
		backoffBase:      time.Second,
	}

	return c, nil
}
