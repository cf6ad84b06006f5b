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

// Package utils holds the Logon signing helper used by the builder package.
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the base64-encoded HMAC-SHA256 signature the Coinbase Prime
// FIX API requires in the Logon message's Tag 96 (RawData/HMAC) field.
// Per https://docs.cdp.coinbase.com/prime/fix-api/admin-messages the signed
// payload is the pipe-delimited concatenation of SendingTime, MsgType,
// MsgSeqNum, SenderCompID(AccessKey), TargetCompID and Password(passphrase).
func Sign(sendingTime, msgType, msgSeqNum, apiKey, targetCompId, passphrase, apiSecret string) string {
	payload := sendingTime + "|" + msgType + "|" + msgSeqNum + "|" + apiKey + "|" + targetCompId + "|" + passphrase

	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
