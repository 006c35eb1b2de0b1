package vrpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaExpansion(t *testing.T) {
	t.Run("friend expands to every friend atomic tag", func(t *testing.T) {
		s := NewSubscriptionSet(MetaFriend)

		for _, tag := range friendTags {
			assert.True(t, s.Wants(tag), "expected %s in expansion", tag)
		}
		assert.False(t, s.Wants(TagUserLocation))
		assert.False(t, s.Wants(TagNotification))
	})

	t.Run("notifications covers both protocol generations", func(t *testing.T) {
		s := NewSubscriptionSet(MetaNotifications)

		for _, tag := range []string{
			TagNotification,
			TagNotificationV2,
			TagNotificationV2Update,
			TagNotificationV2Delete,
			TagHideNotification,
			TagResponseNotification,
			TagSeeNotification,
			TagClearNotification,
		} {
			assert.True(t, s.Wants(tag), "expected %s in expansion", tag)
		}
	})

	t.Run("notifications-v1 includes the sub-discriminants", func(t *testing.T) {
		s := NewSubscriptionSet(MetaNotificationsV1)

		assert.True(t, s.Wants(TagNotification))
		for _, tag := range v1SubTags {
			assert.True(t, s.Wants(tag), "expected %s in expansion", tag)
		}
		assert.False(t, s.Wants(TagNotificationV2))
	})

	t.Run("notifications-v2 includes the sub-discriminants", func(t *testing.T) {
		s := NewSubscriptionSet(MetaNotificationsV2)

		assert.True(t, s.Wants(TagNotificationV2))
		for _, tag := range v2SubTags {
			assert.True(t, s.Wants(tag), "expected %s in expansion", tag)
		}
		assert.False(t, s.Wants(TagNotification))
	})

	t.Run("all is a superset of every other expansion", func(t *testing.T) {
		s := NewSubscriptionSet(MetaAll)

		for meta, expansion := range metaExpansions {
			for _, tag := range expansion {
				assert.True(t, s.Wants(tag), "expected %s (via %s) in all", tag, meta)
			}
		}
		assert.True(t, s.Wants(TagContentRefresh))
		assert.True(t, s.Wants(TagError))
	})

	t.Run("expansion is stable across constructions", func(t *testing.T) {
		a := NewSubscriptionSet(MetaFriend, MetaNotificationsV2)
		b := NewSubscriptionSet(MetaFriend, MetaNotificationsV2)

		assert.ElementsMatch(t, a.Tags(), b.Tags())
	})
}

func TestSubscriptionCrossLink(t *testing.T) {
	t.Run("v1 sub-tag implies notification", func(t *testing.T) {
		for _, sub := range v1SubTags {
			s := NewSubscriptionSet(sub)
			assert.True(t, s.Wants(TagNotification), "%s should imply notification", sub)
			assert.False(t, s.Wants(TagNotificationV2))
		}
	})

	t.Run("v2 sub-tag implies notification-v2", func(t *testing.T) {
		for _, sub := range v2SubTags {
			s := NewSubscriptionSet(sub)
			assert.True(t, s.Wants(TagNotificationV2), "%s should imply notification-v2", sub)
			assert.False(t, s.Wants(TagNotification))
		}
	})

	t.Run("unrelated tags do not trigger cross-link", func(t *testing.T) {
		s := NewSubscriptionSet(TagFriendOnline)
		assert.False(t, s.Wants(TagNotification))
		assert.False(t, s.Wants(TagNotificationV2))
	})
}

func TestSubscriptionSemantics(t *testing.T) {
	t.Run("empty set delivers everything", func(t *testing.T) {
		s := NewSubscriptionSet()

		require.True(t, s.Empty())
		assert.True(t, s.Wants(TagFriendOnline))
		assert.True(t, s.Wants(TagError))
		assert.True(t, s.Wants("not-even-a-real-tag"))
	})

	t.Run("explicit set filters by membership", func(t *testing.T) {
		s := NewSubscriptionSet(TagFriendOnline, TagNotification)

		require.False(t, s.Empty())
		assert.True(t, s.Wants(TagFriendOnline))
		assert.True(t, s.Wants(TagNotification))
		assert.False(t, s.Wants(TagFriendOffline))
	})

	t.Run("duplicates are tolerated", func(t *testing.T) {
		s := NewSubscriptionSet(TagFriendOnline, TagFriendOnline, MetaFriend, MetaFriend)

		assert.True(t, s.Wants(TagFriendOnline))
		assert.True(t, s.Wants(TagFriendDelete))
	})

	t.Run("requested preserves the caller's tags", func(t *testing.T) {
		s := NewSubscriptionSet(MetaFriend, TagNotification)

		assert.Equal(t, []string{MetaFriend, TagNotification}, s.Requested())
	})
}
