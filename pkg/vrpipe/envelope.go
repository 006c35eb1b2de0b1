package vrpipe

import (
	"encoding/json"
	"strings"
)

// envelope is the outer shell of every non-error pipeline frame. Content is
// itself a JSON document; its shape depends on Type, so it is decoded lazily
// per category by the registry.
//
// Error frames reuse the same shell loosely: they carry an `err` field, or a
// literal `type` of "error", and no usable content.
type envelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Err     string `json:"err"`
}

// classification is the classifier's verdict on a raw inbound frame.
type classification int

const (
	// classEvent: a well-formed envelope with a category tag, ready for
	// decode and dispatch.
	classEvent classification = iota
	// classIgnore: wrong payload type. Logged and dropped, connection
	// unaffected.
	classIgnore
	// classFatal: protocol error frame or a frame that does not match the
	// envelope shape at all. The backend rejected the session; the connection
	// must be torn down permanently.
	classFatal
)

// classify inspects one raw frame and decides whether it is an event
// envelope, noise to ignore, or a fatal protocol error.
//
// Malformed outer JSON and envelopes missing a type are fatal rather than
// dropped: the only frames the backend sends outside the envelope shape are
// authentication rejections.
func classify(msgType MessageType, data []byte) (classification, envelope) {
	if msgType != MessageText && msgType != MessageBinary {
		return classIgnore, envelope{}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return classFatal, envelope{Err: "unparseable frame: " + err.Error()}
	}

	if env.Err != "" || env.Type == TagError {
		if env.Err == "" {
			env.Err = "error frame"
		}
		return classFatal, env
	}

	if env.Type == "" {
		env.Err = "frame missing type discriminant"
		return classFatal, env
	}

	return classEvent, env
}

// decodeContent unmarshals a nested content document into v. Empty content
// is valid for payload-less categories such as clear-notification.
func decodeContent(content string, v any) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return json.Unmarshal([]byte(content), v)
}

// decodeNotificationID handles the two shapes notification-pointer events
// arrive in: a bare JSON string holding the id, or an object with a
// notificationId field.
func decodeNotificationID(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	var id string
	if err := json.Unmarshal([]byte(content), &id); err == nil {
		return id, nil
	}

	var obj struct {
		NotificationID string `json:"notificationId"`
	}
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return "", err
	}
	return obj.NotificationID, nil
}
