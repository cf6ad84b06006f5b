package quickfix

// SessionID uniquely identifies one FIX session: the wire BeginString plus
// the sender/target comp ID pair and optional sub/location IDs. Grounded on
// the original engine's SessionID (Session.h), which uses the same fields
// as its natural session key.
type SessionID struct {
	BeginString  string
	SenderCompID string
	SenderSubID  string
	TargetCompID string
	TargetSubID  string
	Qualifier    string
}

func (s SessionID) String() string {
	id := s.BeginString + ":" + s.SenderCompID
	if s.SenderSubID != "" {
		id += "/" + s.SenderSubID
	}
	id += "->" + s.TargetCompID
	if s.TargetSubID != "" {
		id += "/" + s.TargetSubID
	}
	if s.Qualifier != "" {
		id += ":" + s.Qualifier
	}
	return id
}

// counterParty swaps sender and target, used to build the SessionID an
// inbound message's header addresses us as.
func (s SessionID) counterParty() SessionID {
	return SessionID{
		BeginString:  s.BeginString,
		SenderCompID: s.TargetCompID,
		SenderSubID:  s.TargetSubID,
		TargetCompID: s.SenderCompID,
		TargetSubID:  s.SenderSubID,
		Qualifier:    s.Qualifier,
	}
}
