package vrpipe

// v1SubTags are the sub-discriminants that only ever arrive nested inside a
// TagNotification envelope.
var v1SubTags = []string{
	TagFriendRequest,
	TagRequestInvite,
	TagInvite,
	TagInviteResponse,
	TagRequestInviteResponse,
	TagVoteToKick,
}

// v2SubTags are the sub-discriminants that only ever arrive nested inside a
// TagNotificationV2 envelope.
var v2SubTags = []string{
	TagGroupAnnouncement,
	TagGroupInformative,
	TagGroupInvite,
	TagGroupJoinRequest,
}

var userTags = []string{
	TagUserPresence,
	TagUserUpdate,
	TagUserLocation,
	TagUserOffline,
}

var friendTags = []string{
	TagFriendOnline,
	TagFriendActive,
	TagFriendUpdate,
	TagFriendLocation,
	TagFriendOffline,
	TagFriendAdd,
	TagFriendDelete,
}

var groupTags = []string{
	TagGroupJoined,
	TagGroupLeft,
	TagGroupMemberUpdated,
	TagGroupRoleUpdated,
}

var notificationOpTags = []string{
	TagHideNotification,
	TagResponseNotification,
	TagSeeNotification,
	TagClearNotification,
}

// metaExpansions maps each meta tag to its full atomic closure. The table is
// the single source of truth for group expansion; it is never mutated.
var metaExpansions = map[string][]string{
	MetaUser:   userTags,
	MetaFriend: friendTags,
	MetaGroup:  groupTags,
	MetaNotifications: concatTags(
		[]string{TagNotification, TagNotificationV2, TagNotificationV2Update, TagNotificationV2Delete},
		notificationOpTags,
	),
	MetaNotificationsV1: concatTags(
		[]string{TagNotification},
		notificationOpTags,
		v1SubTags,
	),
	MetaNotificationsV2: concatTags(
		[]string{TagNotificationV2, TagNotificationV2Update, TagNotificationV2Delete},
		v2SubTags,
	),
	MetaAll: concatTags(
		userTags,
		friendTags,
		groupTags,
		[]string{TagNotification, TagNotificationV2, TagNotificationV2Update, TagNotificationV2Delete},
		notificationOpTags,
		v1SubTags,
		v2SubTags,
		[]string{TagContentRefresh, TagError},
	),
}

func concatTags(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// SubscriptionSet is the caller-declared set of event categories of interest.
// Meta tags are expanded exactly once, here; membership checks afterwards are
// plain set lookups. The set is immutable after construction.
//
// An empty set means "no filtering": every category is delivered. That is
// distinct from a set that names explicit tags.
type SubscriptionSet struct {
	requested []string
	tags      map[string]struct{}
}

// NewSubscriptionSet expands the given tags (atomic or meta, duplicates
// tolerated) into an immutable membership set.
//
// Sub-discriminant tags imply their carrier envelope: requesting any V1
// sub-tag adds TagNotification, and any V2 sub-tag adds TagNotificationV2,
// since sub-events only ever arrive nested inside those envelopes.
func NewSubscriptionSet(tags ...string) *SubscriptionSet {
	s := &SubscriptionSet{
		requested: append([]string(nil), tags...),
		tags:      make(map[string]struct{}),
	}

	for _, tag := range tags {
		if expansion, ok := metaExpansions[tag]; ok {
			for _, atomic := range expansion {
				s.tags[atomic] = struct{}{}
			}
			continue
		}
		s.tags[tag] = struct{}{}
	}

	for _, sub := range v1SubTags {
		if _, ok := s.tags[sub]; ok {
			s.tags[TagNotification] = struct{}{}
			break
		}
	}
	for _, sub := range v2SubTags {
		if _, ok := s.tags[sub]; ok {
			s.tags[TagNotificationV2] = struct{}{}
			break
		}
	}

	return s
}

// Wants reports whether events tagged with tag should be delivered.
func (s *SubscriptionSet) Wants(tag string) bool {
	if len(s.tags) == 0 {
		return true
	}
	_, ok := s.tags[tag]
	return ok
}

// Empty reports whether the set performs no filtering.
func (s *SubscriptionSet) Empty() bool {
	return len(s.tags) == 0
}

// Requested returns the tags as the caller passed them, before expansion.
func (s *SubscriptionSet) Requested() []string {
	return append([]string(nil), s.requested...)
}

// Tags returns the expanded atomic membership of the set.
func (s *SubscriptionSet) Tags() []string {
	out := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		out = append(out, tag)
	}
	return out
}

// expandTag returns the atomic tags a handler registration on tag covers:
// the meta expansion if tag is a meta tag, otherwise tag itself.
func expandTag(tag string) []string {
	if expansion, ok := metaExpansions[tag]; ok {
		return expansion
	}
	return []string{tag}
}
