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

// Package fixclient is a minimal Application implementation driving a
// quickfix session: it signs the Logon handshake, tracks whether a quick
// logout after logon should stop reconnecting, and logs logon, logout,
// inbound session rejects and inbound application messages.
package fixclient

import (
	"log"
	"time"

	"github.com/akorobka/quickfix/builder"
	"github.com/akorobka/quickfix/constants"

	"github.com/akorobka/quickfix"
)

// Config carries the credentials and identifiers the Logon handshake signs.
type Config struct {
	ApiKey       string
	ApiSecret    string
	Passphrase   string
	SenderCompId string
	TargetCompId string
	PortfolioId  string
}

func NewConfig(apiKey, apiSecret, passphrase, senderCompId, targetCompId, portfolioId string) *Config {
	return &Config{
		ApiKey:       apiKey,
		ApiSecret:    apiSecret,
		Passphrase:   passphrase,
		SenderCompId: senderCompId,
		TargetCompId: targetCompId,
		PortfolioId:  portfolioId,
	}
}

// FixApp implements quickfix.Application, routing the handshake through
// builder.BuildLogon and logging session rejects and application messages
// it receives.
type FixApp struct {
	Config *Config

	SessionId quickfix.SessionID

	shouldExit    bool
	lastLogonTime time.Time
}

func NewFixApp(config *Config) *FixApp {
	return &FixApp{Config: config}
}

func (a *FixApp) OnCreate(sid quickfix.SessionID) {
	a.SessionId = sid
}

func (a *FixApp) OnLogon(sid quickfix.SessionID) {
	a.SessionId = sid
	a.lastLogonTime = time.Now()
	log.Printf("logon complete: %s", sid)
}

func (a *FixApp) OnLogout(sid quickfix.SessionID) {
	log.Printf("logout: %s", sid)

	timeSinceLogon := time.Since(a.lastLogonTime)
	if timeSinceLogon < 5*time.Second || a.lastLogonTime.IsZero() {
		log.Printf("authentication failed, exiting to avoid a reconnect loop")
		a.shouldExit = true
	}
}

// ToAdmin signs outgoing Logon messages with the configured API credentials
// before the session transmits them.
func (a *FixApp) ToAdmin(msg *quickfix.Message, _ quickfix.SessionID) {
	if t, _ := msg.Header.GetString(constants.TagMsgType); t == constants.MsgTypeLogon {
		ts := time.Now().UTC().Format(constants.FixTimeFormat)
		builder.BuildLogon(
			&msg.Body,
			ts,
			a.Config.ApiKey,
			a.Config.ApiSecret,
			a.Config.Passphrase,
			a.Config.TargetCompId,
			a.Config.PortfolioId,
		)
	}
}

func (a *FixApp) FromAdmin(msg *quickfix.Message, _ quickfix.SessionID) quickfix.MessageRejectError {
	if t, _ := msg.Header.GetString(constants.TagMsgType); t == constants.MsgTypeReject {
		text, _ := msg.Body.GetString(constants.TagText)
		log.Printf("received session reject: %s", text)
	}
	return nil
}

func (a *FixApp) ToApp(*quickfix.Message, quickfix.SessionID) error {
	return nil
}

// FromApp logs every application-level message the session delivers.
// A real trading or market-data application routes on MsgType here; that
// routing is out of scope for this engine.
func (a *FixApp) FromApp(msg *quickfix.Message, _ quickfix.SessionID) quickfix.MessageRejectError {
	msgType, _ := msg.Header.GetString(constants.TagMsgType)
	log.Printf("received application message type %s", msgType)
	return nil
}

func (a *FixApp) ShouldExit() bool {
	return a.shouldExit
}
