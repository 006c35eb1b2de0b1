package vrpipe

// CredentialSource supplies the session credential the client uses to open
// its connection. The authentication layer that produces tokens lives
// outside this package; the client only consumes it.
//
// SessionToken is called synchronously at every connection open, including
// reconnects, so a source backed by a live session picks up rotated tokens
// automatically.
type CredentialSource interface {
	SessionToken() (string, error)
	UserAgent() string
	// Label identifies the account in logs, e.g. a display name. Never used
	// on the wire.
	Label() string
}

// StaticCredentials is a CredentialSource holding a fixed token. Suitable
// for tools and tests; long-lived processes should wrap their session layer
// instead so token rotation is picked up on reconnect.
type StaticCredentials struct {
	Token string
	Agent string
	Name  string
}

func (c *StaticCredentials) SessionToken() (string, error) {
	return c.Token, nil
}

func (c *StaticCredentials) UserAgent() string {
	return c.Agent
}

func (c *StaticCredentials) Label() string {
	if c.Name == "" {
		return "static"
	}
	return c.Name
}
