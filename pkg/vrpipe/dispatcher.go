package vrpipe

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler receives one decoded event. Handlers run synchronously on the
// connection's read loop, in registration order; a slow handler delays every
// later frame.
type Handler func(ctx context.Context, ev Event)

// dispatcher filters decoded events against the subscription set and fans
// them out to registered handlers. Compound envelopes (V1 and V2
// notifications) are dispatched a second time under their sub-discriminant.
type dispatcher struct {
	subs   *SubscriptionSet
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
}

func newDispatcher(subs *SubscriptionSet, logger *zap.Logger) *dispatcher {
	return &dispatcher{
		subs:     subs,
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// on registers a handler for tag. Meta tags register the handler for every
// atomic member of their expansion.
func (d *dispatcher) on(tag string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, atomic := range expandTag(tag) {
		d.handlers[atomic] = append(d.handlers[atomic], h)
	}
}

// dispatch delivers ev under tag, then performs second-level dispatch for
// notification envelopes carrying a sub-discriminant.
//
// Filtered events are dropped without logging: with an explicit subscription
// set, events outside it are routine, not errors.
func (d *dispatcher) dispatch(ctx context.Context, tag string, ev Event) bool {
	if !d.emit(ctx, tag, ev) {
		return false
	}

	switch n := ev.(type) {
	case *NotificationEvent:
		if n.Type != "" {
			d.emit(ctx, n.Type, ev)
		}
	case *NotificationV2Event:
		if n.Type != "" {
			d.emit(ctx, n.Type, ev)
		}
	}

	return true
}

// emit runs the filter check for one tag and invokes its handlers. It
// returns whether the event passed the filter.
func (d *dispatcher) emit(ctx context.Context, tag string, ev Event) bool {
	if !d.subs.Wants(tag) {
		return false
	}

	d.mu.RLock()
	hs := d.handlers[tag]
	d.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}

	d.logger.Debug("event dispatched",
		zap.String("tag", tag),
		zap.Int("handlers", len(hs)))

	return true
}
