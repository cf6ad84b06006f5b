package quickfix

import "errors"

var errNoSession = errors.New("quickfix: no session registered for target")

// SendToTarget queues msg for delivery on the session identified by
// sessionID, assigning sequence numbers and routing it through
// Application.ToApp/ToAdmin as Session.send does. Mirrors
// quickfixgo's package-level SendToTarget used throughout application
// request-builder code.
func SendToTarget(msg *Message, sessionID SessionID) error {
	s, ok := lookupSession(sessionID)
	if !ok {
		return errNoSession
	}
	return s.send(msg)
}

// Send queues msg on the sole currently-registered session. Valid only
// when a process manages exactly one session, matching the convenience
// entry point request-builder code calls when it has no SessionID handy.
func Send(msg *Message) error {
	sessionRegistryMu.RLock()
	defer sessionRegistryMu.RUnlock()
	if len(sessionRegistry) != 1 {
		return errors.New("quickfix: Send requires exactly one registered session; use SendToTarget")
	}
	for _, s := range sessionRegistry {
		return s.send(msg)
	}
	return errNoSession
}
