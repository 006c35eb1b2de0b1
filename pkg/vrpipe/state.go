package vrpipe

// State is the lifecycle state of a Client. A single enum rules out the
// invalid combinations three independent booleans would allow, e.g. rejected
// and reconnecting at once.
type State int

const (
	// StateDisconnected is the initial state, before Connect.
	StateDisconnected State = iota
	// StateOpen means the connection is established and acknowledged.
	StateOpen
	// StateReconnecting means the connection dropped and a reconnect is
	// scheduled or in flight. Suppresses concurrent reconnect attempts.
	StateReconnecting
	// StateRejected means the backend rejected the session credential.
	// Terminal: the client never reconnects from here.
	StateRejected
	// StateClosing means the caller shut the client down. Terminal.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateRejected:
		return "rejected"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// terminal reports whether no further connection activity may happen.
func (s State) terminal() bool {
	return s == StateRejected || s == StateClosing
}
