package vrpipe

import (
	"context"

	"github.com/vrpipe/vrpipe/pkg/vrpipe/o11y"
)

// Metric instrument names.
const (
	metricFramesReceived    = "vrpipe.frames.received"
	metricFrameBytes        = "vrpipe.frames.bytes"
	metricEventsDispatched  = "vrpipe.events.dispatched"
	metricEventsFiltered    = "vrpipe.events.filtered"
	metricDecodeFailures    = "vrpipe.events.decode_failures"
	metricUnknownCategories = "vrpipe.events.unknown_categories"
	metricFatalFrames       = "vrpipe.frames.fatal"
	metricReconnects        = "vrpipe.connection.reconnects"
	metricConnectionUp      = "vrpipe.connection.up"
)

// clientMetrics bundles the instruments the client records into. A nil
// *clientMetrics is valid and records nothing, so the hot path never checks
// whether metrics were configured.
type clientMetrics struct {
	frames            o11y.Counter
	frameBytes        o11y.Histogram
	dispatched        o11y.Counter
	filtered          o11y.Counter
	decodeFailures    o11y.Counter
	unknownCategories o11y.Counter
	fatalFrames       o11y.Counter
	reconnects        o11y.Counter
	connectionUp      o11y.Gauge
}

func newClientMetrics(provider o11y.MetricsProvider) *clientMetrics {
	if provider == nil {
		return nil
	}
	return &clientMetrics{
		frames:            provider.Counter(metricFramesReceived),
		frameBytes:        provider.Histogram(metricFrameBytes),
		dispatched:        provider.Counter(metricEventsDispatched),
		filtered:          provider.Counter(metricEventsFiltered),
		decodeFailures:    provider.Counter(metricDecodeFailures),
		unknownCategories: provider.Counter(metricUnknownCategories),
		fatalFrames:       provider.Counter(metricFatalFrames),
		reconnects:        provider.Counter(metricReconnects),
		connectionUp:      provider.Gauge(metricConnectionUp),
	}
}

func (m *clientMetrics) frameReceived(ctx context.Context, size int) {
	if m == nil {
		return
	}
	m.frames.Add(ctx, 1)
	m.frameBytes.Record(ctx, float64(size))
}

func (m *clientMetrics) eventDispatched(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.dispatched.Add(ctx, 1, o11y.Label{Key: "tag", Value: tag})
}

func (m *clientMetrics) eventFiltered(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.filtered.Add(ctx, 1, o11y.Label{Key: "tag", Value: tag})
}

func (m *clientMetrics) decodeFailed(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.decodeFailures.Add(ctx, 1, o11y.Label{Key: "tag", Value: tag})
}

func (m *clientMetrics) unknownCategory(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.unknownCategories.Add(ctx, 1, o11y.Label{Key: "tag", Value: tag})
}

func (m *clientMetrics) fatalFrame(ctx context.Context) {
	if m == nil {
		return
	}
	m.fatalFrames.Add(ctx, 1)
}

func (m *clientMetrics) reconnectScheduled(ctx context.Context) {
	if m == nil {
		return
	}
	m.reconnects.Add(ctx, 1)
}

func (m *clientMetrics) connectionState(ctx context.Context, up bool) {
	if m == nil {
		return
	}
	v := float64(0)
	if up {
		v = 1
	}
	m.connectionUp.Set(ctx, v)
}
