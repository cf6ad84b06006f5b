package quickfix

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// errInvalidFraming is returned by the read loop when an inbound message
// fails BodyLength or CheckSum validation; the session disconnects rather
// than deliver it, per the framing integrity checks in section 4.2.
var errInvalidFraming = errors.New("quickfix: invalid message framing")

// SessionState is the session's logon lifecycle stage.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateLogonSent
	StateLogonReceived
	StateLoggedOn
	StateLogoutSent
)

// Session drives one FIX connection: the logon/logout handshake,
// heartbeat/test-request liveness, inbound sequence number tracking and
// gap recovery, and delivery of application messages to/from Application.
// One goroutine owns a Session's read loop; SendToTarget/Send from other
// goroutines only ever append to its outbound channel, so session state
// itself is never touched outside that one goroutine - the single-writer
// discipline the concurrency model requires.
type Session struct {
	ID           SessionID
	settings     SessionSettings
	app          Application
	store        MessageStore
	dict         *DataDictionary
	dictProvider *DataDictionaryProvider
	log          Log
	metrics      *Metrics

	transport Transport

	mu    sync.Mutex
	state SessionState

	outbound chan []byte
	done     chan struct{}

	lastReceivedTime time.Time
	testRequestSent  bool
	isInitiator      bool

	pending         map[int]*Message
	resendRequested bool

	connID string
}

// NewSession constructs a Session; call Connect to start driving it over a
// Transport.
func NewSession(id SessionID, settings SessionSettings, app Application, store MessageStore, dict *DataDictionary, log Log, metrics *Metrics, isInitiator bool) *Session {
	return &Session{
		ID:          id,
		settings:    settings,
		app:         app,
		store:       store,
		dict:        dict,
		log:         log,
		metrics:     metrics,
		outbound:    make(chan []byte, 256),
		done:        make(chan struct{}),
		isInitiator: isInitiator,
	}
}

func registerSession(id SessionID, s *Session) {
	sessionRegistryMu.Lock()
	defer sessionRegistryMu.Unlock()
	sessionRegistry[id] = s
}

func unregisterSession(id SessionID) {
	sessionRegistryMu.Lock()
	defer sessionRegistryMu.Unlock()
	delete(sessionRegistry, id)
}

var (
	sessionRegistryMu sync.RWMutex
	sessionRegistry   = make(map[SessionID]*Session)
)

// lookupSession finds the running session addressed by id. Used by the
// package-level Send/SendToTarget helpers.
func lookupSession(id SessionID) (*Session, bool) {
	sessionRegistryMu.RLock()
	defer sessionRegistryMu.RUnlock()
	s, ok := sessionRegistry[id]
	return s, ok
}

// Connect takes ownership of transport and blocks, driving the session
// until the connection closes or Stop is called. If isInitiator, a Logon
// is sent immediately; otherwise the session waits for one.
func (s *Session) Connect(transport Transport) error {
	s.transport = transport
	s.connID = uuid.NewString()
	if s.log != nil {
		s.log.OnEventf("connection established, remote=%s, connID=%s", transport.RemoteAddr(), s.connID)
	}
	s.app.OnCreate(s.ID)
	registerSession(s.ID, s)
	defer unregisterSession(s.ID)

	go s.writeLoop()

	if s.isInitiator {
		if err := s.sendLogon(); err != nil {
			return err
		}
		s.setState(StateLogonSent)
	}

	return s.readLoop()
}

// SetDataDictionaryProvider attaches an ApplVerID/BeginString-aware
// dictionary provider, consulted by onApp in preference to the session's
// single default dictionary when validating application-level messages
// under FIXT.1.1.
func (s *Session) SetDataDictionaryProvider(p *DataDictionaryProvider) {
	s.dictProvider = p
}

// Stop closes the session's done channel, which ends writeLoop (messages
// still queued on outbound are not written), and closes the transport so
// that a readLoop blocked in ReadMessage returns. It is safe to call
// multiple times.
func (s *Session) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
		if s.transport != nil {
			s.transport.Close()
		}
	}
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) readLoop() error {
	for {
		raw, err := s.transport.ReadMessage()
		if err != nil {
			s.onDisconnect()
			return err
		}
		s.lastReceivedTime = time.Now()
		if s.log != nil {
			s.log.OnIncoming(string(raw))
		}
		if !validateBodyLength(raw) || !validateCheckSum(raw) {
			if s.log != nil {
				s.log.OnEvent("dropping message with invalid BodyLength or CheckSum")
			}
			s.onDisconnect()
			return errInvalidFraming
		}
		msg, _ := ParseMessageWithDictionary(raw, s.dict)
		s.onMessage(msg)
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case raw := <-s.outbound:
			if s.log != nil {
				s.log.OnOutgoing(string(raw))
			}
			if err := s.transport.WriteMessage(raw); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) onDisconnect() {
	state := s.State()
	wasLoggedOn := state == StateLoggedOn || state == StateLogoutSent
	s.setState(StateDisconnected)
	if wasLoggedOn {
		s.app.OnLogout(s.ID)
	}
	s.Stop()
}

// send queues an outbound message, assigning the next sender sequence
// number, recording it in the store for potential resend, and routing it
// through Application's ToAdmin/ToApp callback before transmission.
func (s *Session) send(msg *Message) error {
	msgType, _ := msg.MsgType()
	admin := isAdminMsgType(msgType)

	if admin {
		s.app.ToAdmin(msg, s.ID)
	} else {
		if err := s.app.ToApp(msg, s.ID); err != nil {
			if _, isDoNotSend := err.(DoNotSend); isDoNotSend {
				return nil
			}
			return err
		}
	}

	seqNum, err := s.store.NextSenderMsgSeqNum()
	if err != nil {
		return err
	}
	msg.Header.SetField(tagMsgSeqNum, FIXInt(seqNum))
	msg.Header.SetField(tagSenderCompID, FIXString(s.ID.SenderCompID))
	msg.Header.SetField(tagTargetCompID, FIXString(s.ID.TargetCompID))
	if s.ID.SenderSubID != "" {
		msg.Header.SetField(tagSenderSubID, FIXString(s.ID.SenderSubID))
	}
	if s.ID.TargetSubID != "" {
		msg.Header.SetField(tagTargetSubID, FIXString(s.ID.TargetSubID))
	}
	msg.Header.SetField(tagSendingTime, FIXUTCTimestamp(time.Now()))
	if msg.Header.GetStringOr(tagBeginString, "") == "" {
		msg.Header.SetField(tagBeginString, FIXString(s.ID.BeginString))
	}

	raw := msg.build()
	storeStart := time.Now()
	setErr := s.store.Set(seqNum, raw)
	if s.metrics != nil {
		s.metrics.StoreLatency.WithLabelValues(s.ID.String(), "set").Observe(time.Since(storeStart).Seconds())
	}
	if setErr != nil {
		return setErr
	}
	if err := s.store.IncrNextSenderMsgSeqNum(); err != nil {
		return err
	}

	select {
	case s.outbound <- []byte(raw):
	case <-s.done:
		return nil
	}
	if s.metrics != nil {
		s.metrics.MessagesSent.WithLabelValues(s.ID.String(), msgType).Inc()
	}
	return nil
}

func isAdminMsgType(t string) bool {
	switch t {
	case msgTypeHeartbeat, msgTypeTestRequest, msgTypeResendRequest,
		msgTypeReject, msgTypeSequenceReset, msgTypeLogout, msgTypeLogon:
		return true
	default:
		return false
	}
}

// GetStringOr returns the tag's value or def if absent.
func (fm *FieldMap) GetStringOr(tag Tag, def string) string {
	v, err := fm.GetString(tag)
	if err != nil {
		return def
	}
	return v
}
