package quickfix

import (
	"strconv"
	"time"
)

// onMessage dispatches one parsed inbound message: sequence number
// checking and gap recovery first, then admin-message handling or
// application delivery.
func (s *Session) onMessage(msg *Message) {
	msgType, err := msg.MsgType()
	if err != nil {
		return
	}

	seqNum, err := msg.Header.GetInt(tagMsgSeqNum)
	if err != nil {
		s.sendReject(msg, 0, RejectReasonRequiredTagMissing, "MsgSeqNum missing")
		return
	}

	expected, err := s.store.NextTargetMsgSeqNum()
	if err != nil {
		return
	}

	if msgType == msgTypeLogon {
		s.onLogon(msg, seqNum)
		return
	}

	if seqNum < expected {
		possDup, _ := msg.Header.GetBool(tagPossDupFlag)
		if !possDup {
			s.app.OnLogout(s.ID)
			return
		}
		// PossDup retransmission below expected: process without
		// advancing, but still deliver admin/app semantics.
		s.dispatch(msgType, msg)
		return
	}

	if seqNum > expected {
		s.queuePending(seqNum, msg)
		return
	}

	s.dispatch(msgType, msg)
	// SequenceReset sets the target sequence number directly (to NewSeqNo);
	// advancing it again here would skip past whatever it just set.
	if msgType != msgTypeSequenceReset {
		s.store.IncrNextTargetMsgSeqNum()
	}
	s.drainPending()
}

// dispatch routes one in-sequence message to its admin handler or to the
// application, independent of sequence number bookkeeping so the same path
// serves both freshly-arrived messages and ones replayed out of the
// pending queue.
func (s *Session) dispatch(msgType string, msg *Message) {
	switch msgType {
	case msgTypeHeartbeat:
		s.onHeartbeat(msg)
	case msgTypeTestRequest:
		s.onTestRequest(msg)
	case msgTypeResendRequest:
		s.onResendRequest(msg)
	case msgTypeSequenceReset:
		s.onSequenceReset(msg)
	case msgTypeLogout:
		s.onLogout(msg)
	case msgTypeReject:
		if rej := s.app.FromAdmin(msg, s.ID); rej != nil {
			s.log.OnEventf("reject rejected: %v", rej)
		}
	default:
		s.onApp(msg)
	}
}

// queuePending holds a message that arrived ahead of the expected target
// sequence number and asks the counterparty to fill the gap with an
// open-ended ResendRequest, per the pending resend queue described in
// section 4.4. Held messages are replayed in order by drainPending once
// the gap closes.
func (s *Session) queuePending(seqNum int, msg *Message) {
	if s.pending == nil {
		s.pending = make(map[int]*Message)
	}
	if _, queued := s.pending[seqNum]; queued {
		return
	}
	s.pending[seqNum] = msg

	if s.metrics != nil {
		s.metrics.SequenceGaps.WithLabelValues(s.ID.String()).Inc()
	}
	if s.resendRequested {
		return
	}
	s.resendRequested = true
	expected, err := s.store.NextTargetMsgSeqNum()
	if err != nil {
		return
	}
	s.sendResendRequest(expected, 0)
}

// drainPending replays messages held by queuePending in order, as soon as
// each one's sequence number becomes the expected target - typically once
// a ResendRequest response has filled the gap in front of it.
func (s *Session) drainPending() {
	for {
		expected, err := s.store.NextTargetMsgSeqNum()
		if err != nil {
			return
		}
		msg, ok := s.pending[expected]
		if !ok {
			break
		}
		delete(s.pending, expected)
		msgType, _ := msg.MsgType()
		s.dispatch(msgType, msg)
		if msgType != msgTypeSequenceReset {
			s.store.IncrNextTargetMsgSeqNum()
		}
	}
	if len(s.pending) == 0 {
		s.resendRequested = false
	}
}

func (s *Session) onApp(msg *Message) {
	if dict := s.appDictionary(msg); dict != nil {
		if err := dict.Validate(msg); err != nil {
			if mre, ok := err.(MessageRejectError); ok {
				tag, _ := mre.RefTagID()
				s.sendReject(msg, tag, mre.RejectReason(), mre.Error())
				return
			}
		}
	}
	if rej := s.app.FromApp(msg, s.ID); rej != nil {
		tag, _ := rej.RefTagID()
		s.sendReject(msg, tag, rej.RejectReason(), rej.Error())
		return
	}
	if s.metrics != nil {
		mt, _ := msg.MsgType()
		s.metrics.MessagesReceived.WithLabelValues(s.ID.String(), mt).Inc()
	}
}

func (s *Session) onLogon(msg *Message, seqNum int) {
	if rej := s.app.FromAdmin(msg, s.ID); rej != nil {
		s.sendLogout(rej.Error())
		return
	}

	if s.settings.ResetOnLogon {
		s.store.Reset()
	}

	s.store.SetNextTargetMsgSeqNum(seqNum + 1)

	switch s.State() {
	case StateLogonSent:
		s.setState(StateLoggedOn)
	default:
		s.setState(StateLogonReceived)
		if err := s.sendLogon(); err != nil {
			return
		}
		s.setState(StateLoggedOn)
	}

	s.app.OnLogon(s.ID)
}

func (s *Session) sendLogon() error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeLogon))
	msg.Body.SetField(tagEncryptMethod, FIXString("0"))
	msg.Body.SetField(tagHeartBtInt, FIXInt(int(s.settings.HeartBtInt/time.Second)))
	return s.send(msg)
}

func (s *Session) onLogout(msg *Message) {
	text := msg.Body.GetStringOr(tagText, "")
	s.app.FromAdmin(msg, s.ID)
	switch s.State() {
	case StateLoggedOn, StateLogonReceived:
		// Counterparty initiated the logout: acknowledge in kind, then
		// drop the connection - there is no reply to wait for.
		s.sendLogout(text)
		s.setState(StateLogoutSent)
	case StateLogoutSent:
		// This is the reply to a Logout we sent: the handshake is
		// complete, safe to tear down the connection now.
	}
	s.onDisconnect()
}

func (s *Session) sendLogout(reason string) error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeLogout))
	if reason != "" {
		msg.Body.SetField(tagText, FIXString(reason))
	}
	return s.send(msg)
}

func (s *Session) onHeartbeat(msg *Message) {
	s.app.FromAdmin(msg, s.ID)
	if s.metrics != nil {
		s.metrics.Heartbeats.WithLabelValues(s.ID.String(), "in").Inc()
	}
}

func (s *Session) sendHeartbeat(testReqID string) error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeHeartbeat))
	if testReqID != "" {
		msg.Body.SetField(tagTestReqID, FIXString(testReqID))
	}
	if s.metrics != nil {
		s.metrics.Heartbeats.WithLabelValues(s.ID.String(), "out").Inc()
	}
	return s.send(msg)
}

func (s *Session) onTestRequest(msg *Message) {
	s.app.FromAdmin(msg, s.ID)
	testReqID := msg.Body.GetStringOr(tagTestReqID, "")
	s.sendHeartbeat(testReqID)
}

func (s *Session) sendTestRequest(testReqID string) error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeTestRequest))
	msg.Body.SetField(tagTestReqID, FIXString(testReqID))
	return s.send(msg)
}

func (s *Session) onResendRequest(msg *Message) {
	s.app.FromAdmin(msg, s.ID)
	begin, _ := msg.Body.GetInt(tagBeginSeqNo)
	end, _ := msg.Body.GetInt(tagEndSeqNo)
	if end == 0 {
		next, _ := s.store.NextSenderMsgSeqNum()
		end = next - 1
	}

	getStart := time.Now()
	raws, err := s.store.Get(begin, end)
	if s.metrics != nil {
		s.metrics.StoreLatency.WithLabelValues(s.ID.String(), "get").Observe(time.Since(getStart).Seconds())
	}
	if err != nil {
		return
	}
	if len(raws) == 0 {
		s.sendSequenceReset(begin, end+1, true)
		return
	}
	for _, raw := range raws {
		resent, perr := ParseMessageWithDictionary([]byte(raw), s.dict)
		if perr != nil {
			continue
		}
		mt, _ := resent.MsgType()
		if isAdminMsgType(mt) {
			continue
		}
		origSendingTime := resent.Header.GetStringOr(tagSendingTime, "")
		resent.Header.SetField(tagPossDupFlag, FIXBoolean(true))
		if origSendingTime != "" {
			resent.Header.SetField(tagOrigSendingTime, FIXString(origSendingTime))
		}
		select {
		case s.outbound <- []byte(resent.build()):
		case <-s.done:
			return
		}
	}
	if s.metrics != nil {
		s.metrics.ResendRequests.WithLabelValues(s.ID.String()).Inc()
	}
}

func (s *Session) sendResendRequest(begin, end int) error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeResendRequest))
	msg.Body.SetField(tagBeginSeqNo, FIXInt(begin))
	msg.Body.SetField(tagEndSeqNo, FIXInt(end))
	return s.send(msg)
}

func (s *Session) onSequenceReset(msg *Message) {
	s.app.FromAdmin(msg, s.ID)
	gapFill, _ := msg.Body.GetBool(tagGapFillFlag)
	newSeqNo, err := msg.Body.GetInt(tagNewSeqNo)
	if err != nil {
		return
	}
	if gapFill {
		current, _ := s.store.NextTargetMsgSeqNum()
		if newSeqNo < current {
			return
		}
	}
	s.store.SetNextTargetMsgSeqNum(newSeqNo)
}

func (s *Session) sendSequenceReset(_, newSeqNo int, gapFill bool) error {
	msg := NewMessage()
	msg.Header.SetField(tagMsgType, FIXString(msgTypeSequenceReset))
	msg.Body.SetField(tagNewSeqNo, FIXInt(newSeqNo))
	msg.Body.SetField(tagGapFillFlag, FIXBoolean(gapFill))
	return s.send(msg)
}

func (s *Session) sendReject(msg *Message, tag Tag, reason int, text string) error {
	refSeqNum, _ := msg.Header.GetInt(tagMsgSeqNum)
	refMsgType, _ := msg.MsgType()

	reject := NewMessage()
	reject.Header.SetField(tagMsgType, FIXString(msgTypeReject))
	reject.Body.SetField(tagRefSeqNum, FIXInt(refSeqNum))
	reject.Body.SetField(tagRefMsgType, FIXString(refMsgType))
	reject.Body.SetField(tagSessionRejectReason, FIXInt(reason))
	if tag != 0 {
		reject.Body.SetField(tagRefTagID, FIXInt(int(tag)))
	}
	if text != "" {
		reject.Body.SetField(tagText, FIXString(text))
	}
	return s.send(reject)
}

// appDictionary selects the data dictionary that should validate msg's
// application-level fields: the provider's ApplVerID-keyed lookup under
// FIXT.1.1 if one is configured, falling back to the session's single
// default dictionary.
func (s *Session) appDictionary(msg *Message) *DataDictionary {
	if s.dictProvider == nil {
		return s.dict
	}
	beginString, _ := msg.Header.GetString(tagBeginString)
	applVerID := msg.Header.GetStringOr(tagApplVerID, "")
	if dict, ok := s.dictProvider.ApplicationDataDictionary(beginString, applVerID); ok {
		return dict
	}
	return s.dict
}

func genTestReqID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
