package vrpipe

// Atomic category tags. These are the exact `type` discriminants the pipeline
// puts on the wire; matching is plain string equality.
const (
	TagUserPresence = "user-presence"
	TagUserUpdate   = "user-update"
	TagUserLocation = "user-location"
	TagUserOffline  = "user-offline"

	TagFriendOnline   = "friend-online"
	TagFriendActive   = "friend-active"
	TagFriendUpdate   = "friend-update"
	TagFriendLocation = "friend-location"
	TagFriendOffline  = "friend-offline"
	TagFriendAdd      = "friend-add"
	TagFriendDelete   = "friend-delete"

	TagNotification         = "notification"
	TagNotificationV2       = "notification-v2"
	TagNotificationV2Update = "notification-v2-update"
	TagNotificationV2Delete = "notification-v2-delete"

	TagHideNotification     = "hide-notification"
	TagResponseNotification = "response-notification"
	TagSeeNotification      = "see-notification"
	TagClearNotification    = "clear-notification"

	TagContentRefresh = "content-refresh"

	TagGroupJoined        = "group-joined"
	TagGroupLeft          = "group-left"
	TagGroupMemberUpdated = "group-member-updated"
	TagGroupRoleUpdated   = "group-role-updated"

	// TagError is the discriminant of protocol error frames, and the tag the
	// client emits synthesized ErrorEvents on.
	TagError = "error"
)

// V1 notification sub-discriminants. They arrive nested inside a
// `notification` envelope as the notification's own `type` field, and double
// as subscription tags.
const (
	TagFriendRequest         = "friend-request"
	TagRequestInvite         = "request-invite"
	TagInvite                = "invite"
	TagInviteResponse        = "invite-response"
	TagRequestInviteResponse = "request-invite-response"
	TagVoteToKick            = "vote-to-kick"
)

// V2 notification sub-discriminants, nested inside `notification-v2`.
const (
	TagGroupAnnouncement = "group.announcement"
	TagGroupInformative  = "group.informative"
	TagGroupInvite       = "group.invite"
	TagGroupJoinRequest  = "group.joinRequest"
)

// Meta tags. A subscription on a meta tag expands, once at construction, to
// a fixed list of atomic tags (see subscription.go).
const (
	MetaUser            = "user"
	MetaFriend          = "friend"
	MetaGroup           = "group"
	MetaNotifications   = "notifications"
	MetaNotificationsV1 = "notifications-v1"
	MetaNotificationsV2 = "notifications-v2"
	MetaAll             = "all"
)

// Event is implemented by every decoded pipeline event. EventTag returns the
// atomic category tag (or, for synthesized errors, TagError).
type Event interface {
	EventTag() string
}

// UserSummary is the trimmed user record embedded in user and friend events.
type UserSummary struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Status            string `json:"status"`
	StatusDescription string `json:"statusDescription"`
	Platform          string `json:"last_platform"`
}

// UserPresenceEvent reports a presence change for the authenticated user.
type UserPresenceEvent struct {
	UserID   string `json:"userId"`
	Status   string `json:"status"`
	Platform string `json:"platform"`
	World    string `json:"world"`
	Instance string `json:"instance"`
}

// UserUpdateEvent carries a refreshed record for the authenticated user.
type UserUpdateEvent struct {
	UserID string      `json:"userId"`
	User   UserSummary `json:"user"`
}

// UserLocationEvent reports the authenticated user moving between instances.
type UserLocationEvent struct {
	UserID      string `json:"userId"`
	Location    string `json:"location"`
	Instance    string `json:"instance"`
	TravelingTo string `json:"travelingToLocation"`
	WorldID     string `json:"worldId"`
}

// UserOfflineEvent reports the authenticated user going offline.
type UserOfflineEvent struct {
	UserID string `json:"userId"`
}

// FriendOnlineEvent reports a friend coming online.
type FriendOnlineEvent struct {
	UserID   string      `json:"userId"`
	User     UserSummary `json:"user"`
	Location string      `json:"location"`
	Platform string      `json:"platform"`
}

// FriendActiveEvent reports a friend becoming active on the website without
// being in-world.
type FriendActiveEvent struct {
	UserID string      `json:"userId"`
	User   UserSummary `json:"user"`
}

// FriendUpdateEvent carries a refreshed record for a friend.
type FriendUpdateEvent struct {
	UserID string      `json:"userId"`
	User   UserSummary `json:"user"`
}

// FriendLocationEvent reports a friend moving between instances.
type FriendLocationEvent struct {
	UserID           string      `json:"userId"`
	User             UserSummary `json:"user"`
	Location         string      `json:"location"`
	TravelingTo      string      `json:"travelingToLocation"`
	WorldID          string      `json:"worldId"`
	CanRequestInvite bool        `json:"canRequestInvite"`
}

// FriendOfflineEvent reports a friend going offline.
type FriendOfflineEvent struct {
	UserID   string `json:"userId"`
	Platform string `json:"platform"`
}

// FriendAddEvent reports a new friendship.
type FriendAddEvent struct {
	UserID string      `json:"userId"`
	User   UserSummary `json:"user"`
}

// FriendDeleteEvent reports a removed friendship.
type FriendDeleteEvent struct {
	UserID string `json:"userId"`
}

// NotificationEvent is a V1 notification. Type is one of the V1
// sub-discriminant tags and drives second-level dispatch. Details is itself
// a JSON document whose shape depends on Type; it is left undecoded.
type NotificationEvent struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	SenderUserID   string `json:"senderUserId"`
	SenderUsername string `json:"senderUsername"`
	ReceiverUserID string `json:"receiverUserId"`
	Message        string `json:"message"`
	Details        string `json:"details"`
	Seen           bool   `json:"seen"`
	CreatedAt      string `json:"created_at"`
}

// NotificationV2Response describes one action the receiver may take on a V2
// notification.
type NotificationV2Response struct {
	Type string `json:"type"`
	Data string `json:"data"`
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// NotificationV2Event is a V2 notification. Type is one of the V2
// sub-discriminant tags and drives second-level dispatch.
type NotificationV2Event struct {
	ID                     string                   `json:"id"`
	Version                int                      `json:"version"`
	Type                   string                   `json:"type"`
	Category               string                   `json:"category"`
	IsSystem               bool                     `json:"isSystem"`
	IgnoreDND              bool                     `json:"ignoreDND"`
	SenderUserID           string                   `json:"senderUserId"`
	SenderUsername         string                   `json:"senderUsername"`
	RelatedNotificationsID string                   `json:"relatedNotificationsId"`
	Title                  string                   `json:"title"`
	Message                string                   `json:"message"`
	ImageURL               string                   `json:"imageUrl"`
	Link                   string                   `json:"link"`
	LinkText               string                   `json:"linkText"`
	Responses              []NotificationV2Response `json:"responses"`
	ExpiresAt              string                   `json:"expiresAt"`
	CreatedAt              string                   `json:"createdAt"`
	UpdatedAt              string                   `json:"updatedAt"`
}

// NotificationV2UpdateEvent carries a partial update to an existing V2
// notification. Updates is the raw patch document.
type NotificationV2UpdateEvent struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Updates string `json:"updates"`
}

// NotificationV2DeleteEvent removes one or more V2 notifications.
type NotificationV2DeleteEvent struct {
	IDs     []string `json:"ids"`
	Version int      `json:"version"`
}

// HideNotificationEvent hides a single V1 notification.
type HideNotificationEvent struct {
	NotificationID string `json:"notificationId"`
}

// ResponseNotificationEvent reports that a notification was responded to,
// possibly from another session of the same account.
type ResponseNotificationEvent struct {
	NotificationID string `json:"notificationId"`
	ReceiverID     string `json:"receiverId"`
	ResponseID     string `json:"responseId"`
}

// SeeNotificationEvent marks a single V1 notification as seen.
type SeeNotificationEvent struct {
	NotificationID string `json:"notificationId"`
}

// ClearNotificationEvent clears all V1 notifications. It carries no payload.
type ClearNotificationEvent struct{}

// ContentRefreshEvent signals that some remotely-owned content (avatars,
// worlds, files) changed and cached copies should be refetched.
type ContentRefreshEvent struct {
	ContentType string `json:"contentType"`
	ItemID      string `json:"itemId"`
	ActionType  string `json:"actionType"`
}

// GroupMember is the membership record embedded in group member events.
type GroupMember struct {
	ID               string `json:"id"`
	GroupID          string `json:"groupId"`
	UserID           string `json:"userId"`
	IsRepresenting   bool   `json:"isRepresenting"`
	JoinedAt         string `json:"joinedAt"`
	MembershipStatus string `json:"membershipStatus"`
}

// GroupRole is the role record embedded in group role events.
type GroupRole struct {
	ID               string   `json:"id"`
	GroupID          string   `json:"groupId"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Permissions      []string `json:"permissions"`
	IsManagementRole bool     `json:"isManagementRole"`
}

// GroupJoinedEvent reports the authenticated user joining a group.
type GroupJoinedEvent struct {
	GroupID string `json:"groupId"`
}

// GroupLeftEvent reports the authenticated user leaving a group.
type GroupLeftEvent struct {
	GroupID string `json:"groupId"`
}

// GroupMemberUpdatedEvent carries a refreshed membership record.
type GroupMemberUpdatedEvent struct {
	Member GroupMember `json:"member"`
}

// GroupRoleUpdatedEvent carries a refreshed role record.
type GroupRoleUpdatedEvent struct {
	Role GroupRole `json:"role"`
}

// ErrorEvent is synthesized by the client, never decoded from the wire. It
// surfaces unrecognized categories and fatal protocol errors on TagError.
type ErrorEvent struct {
	Message string
	Tag     string // offending wire tag, if any
	Raw     []byte // raw frame payload, for diagnostics
}

func (*UserPresenceEvent) EventTag() string { return TagUserPresence }
func (*UserUpdateEvent) EventTag() string { return TagUserUpdate }
func (*UserLocationEvent) EventTag() string { return TagUserLocation }
func (*UserOfflineEvent) EventTag() string { return TagUserOffline }
func (*FriendOnlineEvent) EventTag() string { return TagFriendOnline }
func (*FriendActiveEvent) EventTag() string { return TagFriendActive }
func (*FriendUpdateEvent) EventTag() string { return TagFriendUpdate }
func (*FriendLocationEvent) EventTag() string { return TagFriendLocation }
func (*FriendOfflineEvent) EventTag() string { return TagFriendOffline }
func (*FriendAddEvent) EventTag() string { return TagFriendAdd }
func (*FriendDeleteEvent) EventTag() string { return TagFriendDelete }
func (*NotificationEvent) EventTag() string { return TagNotification }
func (*NotificationV2Event) EventTag() string { return TagNotificationV2 }
func (*NotificationV2UpdateEvent) EventTag() string { return TagNotificationV2Update }
func (*NotificationV2DeleteEvent) EventTag() string { return TagNotificationV2Delete }
func (*HideNotificationEvent) EventTag() string { return TagHideNotification }
func (*ResponseNotificationEvent) EventTag() string { return TagResponseNotification }
func (*SeeNotificationEvent) EventTag() string { return TagSeeNotification }
func (*ClearNotificationEvent) EventTag() string { return TagClearNotification }
func (*ContentRefreshEvent) EventTag() string { return TagContentRefresh }
func (*GroupJoinedEvent) EventTag() string { return TagGroupJoined }
func (*GroupLeftEvent) EventTag() string { return TagGroupLeft }
func (*GroupMemberUpdatedEvent) EventTag() string { return TagGroupMemberUpdated }
func (*GroupRoleUpdatedEvent) EventTag() string { return TagGroupRoleUpdated }
func (*ErrorEvent) EventTag() string { return TagError }
