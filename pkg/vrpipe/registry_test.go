package vrpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoverage(t *testing.T) {
	atomic := concatTags(
		userTags,
		friendTags,
		groupTags,
		notificationOpTags,
		[]string{TagNotification, TagNotificationV2, TagNotificationV2Update, TagNotificationV2Delete, TagContentRefresh},
	)

	for _, tag := range atomic {
		assert.Contains(t, eventRegistry, tag, "no decoder registered for %s", tag)
	}

	// Error frames are the classifier's business; they must never decode as
	// typed events.
	assert.NotContains(t, eventRegistry, TagError)
}

func TestRegistryDecode(t *testing.T) {
	t.Run("friend-location", func(t *testing.T) {
		ev, err := eventRegistry[TagFriendLocation](`{
			"userId": "usr_1",
			"user": {"id": "usr_1", "displayName": "mika", "status": "join me"},
			"location": "wrld_1:1234~private(usr_1)",
			"travelingToLocation": "",
			"worldId": "wrld_1",
			"canRequestInvite": true
		}`)
		require.NoError(t, err)

		loc, ok := ev.(*FriendLocationEvent)
		require.True(t, ok)
		assert.Equal(t, "usr_1", loc.UserID)
		assert.Equal(t, "mika", loc.User.DisplayName)
		assert.Equal(t, "wrld_1", loc.WorldID)
		assert.True(t, loc.CanRequestInvite)
		assert.Equal(t, TagFriendLocation, ev.EventTag())
	})

	t.Run("v1 notification carries its sub-discriminant", func(t *testing.T) {
		ev, err := eventRegistry[TagNotification](`{
			"id": "not_1",
			"type": "request-invite",
			"senderUserId": "usr_2",
			"message": "let me in",
			"details": "{\"platform\":\"standalonewindows\"}"
		}`)
		require.NoError(t, err)

		n, ok := ev.(*NotificationEvent)
		require.True(t, ok)
		assert.Equal(t, TagRequestInvite, n.Type)
		assert.Equal(t, "usr_2", n.SenderUserID)
		assert.JSONEq(t, `{"platform":"standalonewindows"}`, n.Details)
	})

	t.Run("v2 notification with responses", func(t *testing.T) {
		ev, err := eventRegistry[TagNotificationV2](`{
			"id": "not_2",
			"version": 2,
			"type": "group.invite",
			"title": "Group invite",
			"message": "You have been invited",
			"responses": [
				{"type": "accept", "data": "grp_1", "text": "Accept"},
				{"type": "decline", "data": "grp_1", "text": "Decline"}
			]
		}`)
		require.NoError(t, err)

		n, ok := ev.(*NotificationV2Event)
		require.True(t, ok)
		assert.Equal(t, TagGroupInvite, n.Type)
		require.Len(t, n.Responses, 2)
		assert.Equal(t, "accept", n.Responses[0].Type)
	})

	t.Run("notification-v2-delete id list", func(t *testing.T) {
		ev, err := eventRegistry[TagNotificationV2Delete](`{"ids":["not_1","not_2"],"version":2}`)
		require.NoError(t, err)

		del, ok := ev.(*NotificationV2DeleteEvent)
		require.True(t, ok)
		assert.Equal(t, []string{"not_1", "not_2"}, del.IDs)
	})

	t.Run("hide-notification accepts a bare string id", func(t *testing.T) {
		ev, err := eventRegistry[TagHideNotification](`"not_3"`)
		require.NoError(t, err)

		hide, ok := ev.(*HideNotificationEvent)
		require.True(t, ok)
		assert.Equal(t, "not_3", hide.NotificationID)
	})

	t.Run("clear-notification tolerates empty content", func(t *testing.T) {
		ev, err := eventRegistry[TagClearNotification]("")
		require.NoError(t, err)
		assert.Equal(t, TagClearNotification, ev.EventTag())
	})

	t.Run("group member update", func(t *testing.T) {
		ev, err := eventRegistry[TagGroupMemberUpdated](`{
			"member": {"id": "gmem_1", "groupId": "grp_1", "userId": "usr_1", "isRepresenting": true}
		}`)
		require.NoError(t, err)

		up, ok := ev.(*GroupMemberUpdatedEvent)
		require.True(t, ok)
		assert.Equal(t, "grp_1", up.Member.GroupID)
		assert.True(t, up.Member.IsRepresenting)
	})

	t.Run("malformed content is an error", func(t *testing.T) {
		_, err := eventRegistry[TagFriendOnline](`{"userId":`)
		assert.Error(t, err)
	})
}
