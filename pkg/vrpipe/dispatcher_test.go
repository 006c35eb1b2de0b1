package vrpipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func countingHandler(n *int) Handler {
	return func(ctx context.Context, ev Event) {
		*n++
	}
}

func TestDispatcherFiltering(t *testing.T) {
	t.Run("handler fires iff category is subscribed", func(t *testing.T) {
		tests := []struct {
			name      string
			subs      []string
			tag       string
			ev        Event
			delivered bool
		}{
			{"subscribed atomic tag", []string{TagFriendOnline}, TagFriendOnline, &FriendOnlineEvent{}, true},
			{"unsubscribed atomic tag", []string{TagFriendOnline}, TagFriendOffline, &FriendOfflineEvent{}, false},
			{"subscribed via meta", []string{MetaFriend}, TagFriendDelete, &FriendDeleteEvent{}, true},
			{"empty set delivers everything", nil, TagUserLocation, &UserLocationEvent{}, true},
			{"error tag filtered like any other", []string{TagFriendOnline}, TagError, &ErrorEvent{}, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := newDispatcher(NewSubscriptionSet(tt.subs...), zap.NewNop())
				fired := 0
				d.on(tt.tag, countingHandler(&fired))

				delivered := d.dispatch(context.Background(), tt.tag, tt.ev)

				assert.Equal(t, tt.delivered, delivered)
				if tt.delivered {
					assert.Equal(t, 1, fired)
				} else {
					assert.Zero(t, fired)
				}
			})
		}
	})

	t.Run("handlers fire in registration order", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(), zap.NewNop())

		var order []string
		d.on(TagFriendOnline, func(ctx context.Context, ev Event) { order = append(order, "first") })
		d.on(TagFriendOnline, func(ctx context.Context, ev Event) { order = append(order, "second") })
		d.on(TagFriendOnline, func(ctx context.Context, ev Event) { order = append(order, "third") })

		d.dispatch(context.Background(), TagFriendOnline, &FriendOnlineEvent{})

		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("meta registration fires for every atomic member", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(), zap.NewNop())
		fired := 0
		d.on(MetaFriend, countingHandler(&fired))

		for _, tag := range friendTags {
			ev, err := eventRegistry[tag]("{}")
			assert.NoError(t, err)
			d.dispatch(context.Background(), tag, ev)
		}

		assert.Equal(t, len(friendTags), fired)
	})
}

func TestDispatcherSubLevelDispatch(t *testing.T) {
	t.Run("v1 notification reaches both levels with empty set", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(), zap.NewNop())
		outer, inner := 0, 0
		d.on(TagNotification, countingHandler(&outer))
		d.on(TagFriendRequest, countingHandler(&inner))

		d.dispatch(context.Background(), TagNotification, &NotificationEvent{ID: "not_1", Type: TagFriendRequest})

		assert.Equal(t, 1, outer)
		assert.Equal(t, 1, inner)
	})

	t.Run("v2 notification reaches both levels with empty set", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(), zap.NewNop())
		outer, inner := 0, 0
		d.on(TagNotificationV2, countingHandler(&outer))
		d.on(TagGroupInvite, countingHandler(&inner))

		d.dispatch(context.Background(), TagNotificationV2, &NotificationV2Event{ID: "not_2", Type: TagGroupInvite})

		assert.Equal(t, 1, outer)
		assert.Equal(t, 1, inner)
	})

	t.Run("sub-tag subscription delivers the carrier and the sub-event", func(t *testing.T) {
		// Cross-link: subscribing to friend-request implicitly adds
		// notification, so the envelope passes the outer filter.
		d := newDispatcher(NewSubscriptionSet(TagFriendRequest), zap.NewNop())
		outer, inner := 0, 0
		d.on(TagNotification, countingHandler(&outer))
		d.on(TagFriendRequest, countingHandler(&inner))

		d.dispatch(context.Background(), TagNotification, &NotificationEvent{Type: TagFriendRequest})

		assert.Equal(t, 1, outer)
		assert.Equal(t, 1, inner)
	})

	t.Run("inner filter suppresses unrequested sub-types", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(TagNotification), zap.NewNop())
		outer, inner := 0, 0
		d.on(TagNotification, countingHandler(&outer))
		d.on(TagInvite, countingHandler(&inner))

		d.dispatch(context.Background(), TagNotification, &NotificationEvent{Type: TagInvite})

		assert.Equal(t, 1, outer)
		assert.Zero(t, inner, "invite sub-type was not subscribed")
	})

	t.Run("notification without sub-type dispatches once", func(t *testing.T) {
		d := newDispatcher(NewSubscriptionSet(), zap.NewNop())
		outer := 0
		d.on(TagNotification, countingHandler(&outer))

		d.dispatch(context.Background(), TagNotification, &NotificationEvent{})

		assert.Equal(t, 1, outer)
	})
}
