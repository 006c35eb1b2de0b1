package vrpipe

// decodeFunc turns the nested content document of one category into its
// typed event.
type decodeFunc func(content string) (Event, error)

// eventRegistry maps every known atomic category tag to its decoder. It is
// the single dispatch table shared by the top-level classify path; the
// notification sub-levels reuse the decoded V1/V2 events directly, so no
// second table is needed. TagError is deliberately absent: error frames are
// handled by the classifier before decode and must never reach this table.
var eventRegistry = map[string]decodeFunc{
	TagUserPresence: func(c string) (Event, error) {
		ev := &UserPresenceEvent{}
		return ev, decodeContent(c, ev)
	},
	TagUserUpdate: func(c string) (Event, error) {
		ev := &UserUpdateEvent{}
		return ev, decodeContent(c, ev)
	},
	TagUserLocation: func(c string) (Event, error) {
		ev := &UserLocationEvent{}
		return ev, decodeContent(c, ev)
	},
	TagUserOffline: func(c string) (Event, error) {
		ev := &UserOfflineEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendOnline: func(c string) (Event, error) {
		ev := &FriendOnlineEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendActive: func(c string) (Event, error) {
		ev := &FriendActiveEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendUpdate: func(c string) (Event, error) {
		ev := &FriendUpdateEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendLocation: func(c string) (Event, error) {
		ev := &FriendLocationEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendOffline: func(c string) (Event, error) {
		ev := &FriendOfflineEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendAdd: func(c string) (Event, error) {
		ev := &FriendAddEvent{}
		return ev, decodeContent(c, ev)
	},
	TagFriendDelete: func(c string) (Event, error) {
		ev := &FriendDeleteEvent{}
		return ev, decodeContent(c, ev)
	},
	TagNotification: func(c string) (Event, error) {
		ev := &NotificationEvent{}
		return ev, decodeContent(c, ev)
	},
	TagNotificationV2: func(c string) (Event, error) {
		ev := &NotificationV2Event{}
		return ev, decodeContent(c, ev)
	},
	TagNotificationV2Update: func(c string) (Event, error) {
		ev := &NotificationV2UpdateEvent{}
		return ev, decodeContent(c, ev)
	},
	TagNotificationV2Delete: func(c string) (Event, error) {
		ev := &NotificationV2DeleteEvent{}
		return ev, decodeContent(c, ev)
	},
	TagHideNotification: func(c string) (Event, error) {
		id, err := decodeNotificationID(c)
		return &HideNotificationEvent{NotificationID: id}, err
	},
	TagResponseNotification: func(c string) (Event, error) {
		ev := &ResponseNotificationEvent{}
		return ev, decodeContent(c, ev)
	},
	TagSeeNotification: func(c string) (Event, error) {
		id, err := decodeNotificationID(c)
		return &SeeNotificationEvent{NotificationID: id}, err
	},
	TagClearNotification: func(c string) (Event, error) {
		return &ClearNotificationEvent{}, nil
	},
	TagContentRefresh: func(c string) (Event, error) {
		ev := &ContentRefreshEvent{}
		return ev, decodeContent(c, ev)
	},
	TagGroupJoined: func(c string) (Event, error) {
		ev := &GroupJoinedEvent{}
		return ev, decodeContent(c, ev)
	},
	TagGroupLeft: func(c string) (Event, error) {
		ev := &GroupLeftEvent{}
		return ev, decodeContent(c, ev)
	},
	TagGroupMemberUpdated: func(c string) (Event, error) {
		ev := &GroupMemberUpdatedEvent{}
		return ev, decodeContent(c, ev)
	},
	TagGroupRoleUpdated: func(c string) (Event, error) {
		ev := &GroupRoleUpdatedEvent{}
		return ev, decodeContent(c, ev)
	},
}
