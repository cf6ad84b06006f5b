package quickfix

import "strconv"

// Tag identifies a FIX field by its numeric tag.
type Tag int

func (t Tag) String() string { return strconv.Itoa(int(t)) }

// Tags used by the engine itself, outside of any application dictionary.
const (
	tagBeginString = Tag(8)
	tagBodyLength  = Tag(9)
	tagMsgType     = Tag(35)
	tagSenderCompID = Tag(49)
	tagTargetCompID = Tag(56)
	tagMsgSeqNum    = Tag(34)
	tagSendingTime  = Tag(52)
	tagCheckSum     = Tag(10)
	tagPossDupFlag  = Tag(43)
	tagOrigSendingTime = Tag(122)
	tagTestReqID    = Tag(112)
	tagHeartBtInt   = Tag(108)
	tagEncryptMethod = Tag(98)
	tagBeginSeqNo   = Tag(7)
	tagEndSeqNo     = Tag(16)
	tagNewSeqNo     = Tag(36)
	tagGapFillFlag  = Tag(123)
	tagRefSeqNum    = Tag(45)
	tagRefTagID     = Tag(371)
	tagRefMsgType   = Tag(372)
	tagSessionRejectReason = Tag(373)
	tagText         = Tag(58)
	tagApplVerID    = Tag(1128)
	tagSenderSubID  = Tag(50)
	tagTargetSubID  = Tag(57)
)

// Admin message types, per isAdmin/isApp classification in Message.h.
const (
	msgTypeHeartbeat      = "0"
	msgTypeTestRequest    = "1"
	msgTypeResendRequest  = "2"
	msgTypeReject         = "3"
	msgTypeSequenceReset  = "4"
	msgTypeLogout         = "5"
	msgTypeLogon          = "A"
)
