package quickfix

// Application is implemented by the caller to receive session lifecycle
// notifications and inbound/outbound messages. A session is driven
// entirely through these seven callbacks; there is no separate "handler
// registration" step.
type Application interface {
	// OnCreate is called each time Session.Connect takes over a connection,
	// before Connect sends or reads anything on it. Good place to stash the
	// SessionID for later use.
	OnCreate(sessionID SessionID)

	// OnLogon is called when a session successfully completes the logon
	// handshake, either as acceptor or initiator.
	OnLogon(sessionID SessionID)

	// OnLogout is called when a session transitions out of the logged-on
	// state, whether through a clean Logout exchange or a dropped
	// connection.
	OnLogout(sessionID SessionID)

	// ToAdmin is called before every outbound administrative message is
	// sent, allowing the application to populate fields the session layer
	// does not know about (e.g. Logon credentials).
	ToAdmin(msg *Message, sessionID SessionID)

	// ToApp is called before every outbound application message is sent.
	// Returning DoNotSend suppresses transmission.
	ToApp(msg *Message, sessionID SessionID) error

	// FromAdmin is called for every inbound administrative message before
	// the session acts on its content (logon, sequence reset, resend, ...).
	// A non-nil return for a Logon refuses the logon.
	FromAdmin(msg *Message, sessionID SessionID) MessageRejectError

	// FromApp is called for every inbound application message.
	FromApp(msg *Message, sessionID SessionID) MessageRejectError
}
