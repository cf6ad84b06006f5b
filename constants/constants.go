/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package constants holds the FIX message types, protocol values, and tag
// numbers the minimal fixclient Application needs to sign and recognize
// the Logon handshake.
package constants

import "github.com/akorobka/quickfix"

// --- Message Types ---
const (
	MsgTypeLogon  = "A" // Logon
	MsgTypeReject = "3" // Session-level Reject
)

// --- Protocol Constants ---
const (
	FixTimeFormat     = "20060102-15:04:05.000"
	FixBeginString    = "FIXT.1.1"
	EncryptMethodNone = "0"
	HeartBtInterval   = "30"
	DropCopyFlagYes   = "Y"
	MsgSeqNumInit     = "1"
)

// --- Standard FIX Tags ---
var (
	TagAccount      = quickfix.Tag(1)
	TagMsgType      = quickfix.Tag(35)
	TagText         = quickfix.Tag(58)
	TagHmac         = quickfix.Tag(96)
	TagEncryptMethod = quickfix.Tag(98)
	TagHeartBtInt   = quickfix.Tag(108)
	TagPassword     = quickfix.Tag(554)

	// Coinbase Custom Tags
	TagDropCopyFlag = quickfix.Tag(9406)
	TagAccessKey    = quickfix.Tag(9407)
)
