package quickfix

// Message is a single FIX message: an ordered Header, Body and Trailer,
// plus the validation status accumulated while parsing it off the wire.
// Mirrors the C++ engine's Message class (Message.h), replacing its
// Header/Body/Trailer inheritance hierarchy with plain composed structs and
// its tagOutOfOrder/invalidTagFormat/incorrectDataFormat status bitset with
// an explicit uint8 field plus errorPosition, per the Design Notes'
// "inheritance replacement" and "status bit packing" decisions.
type Message struct {
	Header  Header
	Body    Body
	Trailer Trailer

	rawMessage    string
	status        uint8
	errorPosition int
}

const (
	statusTagOutOfOrder uint8 = 1 << iota
	statusInvalidTagFormat
	statusIncorrectDataFormat
)

// NewMessage returns an empty outbound message ready for header/body/trailer
// population via SetField.
func NewMessage() *Message {
	return &Message{}
}

// IsTagOutOfOrder reports whether the tag-out-of-order status bit is set.
// ParseMessage and ParseMessageWithDictionary never set it: a header tag
// that appears after the body has begun is stored in the body, and the
// message is not flagged.
func (m *Message) IsTagOutOfOrder() bool { return m.status&statusTagOutOfOrder != 0 }

// IsInvalidTagFormat reports whether a tag token failed to parse as a
// positive integer while scanning the wire bytes.
func (m *Message) IsInvalidTagFormat() bool { return m.status&statusInvalidTagFormat != 0 }

// IsIncorrectDataFormat reports whether the incorrect-data-format status
// bit is set. The parser never sets it: field values are not type-checked
// while scanning the wire bytes.
func (m *Message) IsIncorrectDataFormat() bool { return m.status&statusIncorrectDataFormat != 0 }

// ErrorPosition is the byte offset of the first detected error, or -1 if
// none.
func (m *Message) ErrorPosition() int {
	if m.status == 0 {
		return -1
	}
	return m.errorPosition
}

// MsgType returns the message's MsgType(35) header field.
func (m *Message) MsgType() (string, error) {
	return m.Header.GetString(tagMsgType)
}

// IsAdmin reports whether MsgType identifies a session-administrative
// message (Heartbeat, TestRequest, ResendRequest, Reject, SequenceReset,
// Logout, Logon).
//
// The original isAdmin() reads msgType[0] without checking length first,
// so a malformed (empty) MsgType panics the process; here a short or
// missing MsgType instead returns (false, error) — the redesigned
// behavior called for in place of that defect.
func (m *Message) IsAdmin() (bool, error) {
	t, err := m.MsgType()
	if err != nil {
		return false, err
	}
	if len(t) == 0 {
		return false, ParseError{Reason: "empty MsgType", Offset: m.errorPosition}
	}
	switch t {
	case msgTypeHeartbeat, msgTypeTestRequest, msgTypeResendRequest,
		msgTypeReject, msgTypeSequenceReset, msgTypeLogout, msgTypeLogon:
		return true, nil
	default:
		return false, nil
	}
}

// IsApp is the complement of IsAdmin.
func (m *Message) IsApp() (bool, error) {
	admin, err := m.IsAdmin()
	if err != nil {
		return false, err
	}
	return !admin, nil
}

// SessionID builds the SessionID the message's header addresses its
// receiver as, i.e. swapping the header's sender/target so that a session
// looking up state by "who am I talking to" finds the right entry.
func (m *Message) SessionID() (SessionID, error) {
	beginString, err := m.Header.GetString(tagBeginString)
	if err != nil {
		return SessionID{}, err
	}
	sender, err := m.Header.GetString(tagSenderCompID)
	if err != nil {
		return SessionID{}, err
	}
	target, err := m.Header.GetString(tagTargetCompID)
	if err != nil {
		return SessionID{}, err
	}
	id := SessionID{
		BeginString:  beginString,
		SenderCompID: sender,
		SenderSubID:  m.Header.GetStringOr(tagSenderSubID, ""),
		TargetCompID: target,
		TargetSubID:  m.Header.GetStringOr(tagTargetSubID, ""),
	}
	return id.counterParty(), nil
}

// toBeginString maps an ApplVerID (tag 1128 enum) to the BeginString used on
// the wire under FIXT.1.1 transport. FIX.5.0, FIX.5.0SP1 and FIX.5.0SP2 all
// collapse to the single wire string "FIX.5.0" — this mirrors
// DataDictionaryProvider.cpp's actual (coarser than you might expect)
// behavior and is kept rather than "fixed", so callers needing to
// distinguish SP1/SP2 must keep consulting ApplVerID directly.
func toBeginString(applVerID string) string {
	switch applVerID {
	case "6":
		return "FIX.4.0"
	case "7":
		return "FIX.4.1"
	case "8":
		return "FIX.4.2"
	case "9":
		return "FIX.4.3"
	case "F":
		return "FIX.4.4"
	case "G", "H", "J":
		return "FIX.5.0"
	default:
		return ""
	}
}

// toApplVerID is the inverse mapping used when selecting an application
// data dictionary for an outbound FIXT.1.1 message from its BeginString.
func toApplVerID(beginString string) string {
	switch beginString {
	case "FIX.4.0":
		return "6"
	case "FIX.4.1":
		return "7"
	case "FIX.4.2":
		return "8"
	case "FIX.4.3":
		return "9"
	case "FIX.4.4":
		return "F"
	case "FIX.5.0":
		return "G"
	default:
		return ""
	}
}
