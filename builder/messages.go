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

// Package builder assembles application-level FIX messages from typed
// parameters, keeping tag wiring out of the application layer.
package builder

import (
	"github.com/akorobka/quickfix/constants"
	"github.com/akorobka/quickfix/utils"

	"github.com/akorobka/quickfix"
)

// FieldSetter abstracts setting fields on FIX message components.
type FieldSetter interface {
	SetField(tag quickfix.Tag, field quickfix.FieldValueWriter) *quickfix.FieldMap
}

func setString(fs FieldSetter, tag quickfix.Tag, value string) {
	fs.SetField(tag, quickfix.FIXString(value))
}

// BuildLogon populates the Logon body with the HMAC signature and
// credential fields the Coinbase Prime FIX API expects.
func BuildLogon(
	body *quickfix.Body,
	ts, apiKey, apiSecret, passphrase, targetCompId, portfolioId string,
) {
	sig := utils.Sign(ts, constants.MsgTypeLogon, constants.MsgSeqNumInit, apiKey, targetCompId, passphrase, apiSecret)

	setString(body, constants.TagEncryptMethod, constants.EncryptMethodNone)
	setString(body, constants.TagHeartBtInt, constants.HeartBtInterval)

	setString(body, constants.TagPassword, passphrase)
	setString(body, constants.TagAccount, portfolioId)
	setString(body, constants.TagHmac, sig)
	// Per Coinbase Prime FIX API: use Tag 9407 (AccessKey) for API key
	// https://docs.cdp.coinbase.com/prime/fix-api/admin-messages
	setString(body, constants.TagAccessKey, apiKey)
	setString(body, constants.TagDropCopyFlag, constants.DropCopyFlagYes)
}
