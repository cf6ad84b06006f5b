package quickfix

import (
	"time"

	"github.com/spf13/viper"
)

// SessionSettings holds the configuration for one session, loaded from a
// settings file whose top-level "default" map is merged into each entry of
// its "sessions" list. The file format must be able to express that list
// (YAML, for example); an INI file yields no sessions. Viper backs the
// loader so session configuration
// follows the same typed-settings-dictionary shape the rest of this
// module's ambient stack uses for configuration.
type SessionSettings struct {
	BeginString     string
	SenderCompID    string
	TargetCompID    string
	ConnectionType  string // "acceptor" or "initiator"
	SocketAcceptAddr string
	SocketConnectAddr string
	HeartBtInt      time.Duration
	ReconnectInterval time.Duration
	StartTime       string
	EndTime         string
	DataDictionary  string
	FileStorePath   string
	ResetOnLogon    bool
}

// Settings is a collection of SessionSettings keyed by SessionID, the unit
// Acceptor/Initiator consume to know which sessions to manage.
type Settings struct {
	Sessions map[SessionID]SessionSettings
}

// LoadSettings parses a settings file at path using viper, returning one
// SessionSettings per configured "sessions.<n>" entry, merged over a
// top-level "default" section.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}

	defaults := v.Sub("default")
	sessionsRaw, _ := v.Get("sessions").([]interface{})

	out := &Settings{Sessions: make(map[SessionID]SessionSettings)}
	for _, raw := range sessionsRaw {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		sv := viper.New()
		if defaults != nil {
			for _, k := range defaults.AllKeys() {
				sv.Set(k, defaults.Get(k))
			}
		}
		for k, val := range m {
			sv.Set(k, val)
		}

		id := SessionID{
			BeginString:  sv.GetString("beginstring"),
			SenderCompID: sv.GetString("sendercompid"),
			TargetCompID: sv.GetString("targetcompid"),
		}

		heartBt := sv.GetInt("heartbtint")
		if heartBt <= 0 {
			heartBt = 30
		}
		reconnect := sv.GetInt("reconnectinterval")
		if reconnect <= 0 {
			reconnect = 30
		}

		out.Sessions[id] = SessionSettings{
			BeginString:       id.BeginString,
			SenderCompID:      id.SenderCompID,
			TargetCompID:      id.TargetCompID,
			ConnectionType:    sv.GetString("connectiontype"),
			SocketAcceptAddr:  sv.GetString("socketacceptport"),
			SocketConnectAddr: sv.GetString("socketconnecthost") + ":" + sv.GetString("socketconnectport"),
			HeartBtInt:        time.Duration(heartBt) * time.Second,
			ReconnectInterval: time.Duration(reconnect) * time.Second,
			StartTime:         sv.GetString("starttime"),
			EndTime:           sv.GetString("endtime"),
			DataDictionary:    sv.GetString("datadictionary"),
			FileStorePath:     sv.GetString("filestorepath"),
			ResetOnLogon:      sv.GetBool("resetonlogon"),
		}
	}
	return out, nil
}
