package quickfix

import (
	"net"
	"time"
)

// Initiator dials out to one or more acceptors and keeps reconnecting on a
// fixed interval until Stop is called, per the connection lifecycle in
// section 4.7.
type Initiator struct {
	app       Application
	settings  *Settings
	storeFac  StoreFactory
	dict      *DataDictionary
	logFac    LogFactory
	metrics   *Metrics

	stop chan struct{}
}

// NewInitiator constructs an Initiator for every session in settings whose
// ConnectionType is "initiator".
func NewInitiator(app Application, settings *Settings, storeFac StoreFactory, dict *DataDictionary, logFac LogFactory, metrics *Metrics) *Initiator {
	return &Initiator{
		app:      app,
		settings: settings,
		storeFac: storeFac,
		dict:     dict,
		logFac:   logFac,
		metrics:  metrics,
		stop:     make(chan struct{}),
	}
}

// Start dials every configured initiator session in its own goroutine,
// reconnecting after ReconnectInterval whenever the connection drops.
func (ini *Initiator) Start() error {
	for id, sess := range ini.settings.Sessions {
		if sess.ConnectionType != "initiator" {
			continue
		}
		go ini.run(id, sess)
	}
	return nil
}

func (ini *Initiator) run(id SessionID, settings SessionSettings) {
	for {
		select {
		case <-ini.stop:
			return
		default:
		}

		conn, err := net.DialTimeout("tcp", settings.SocketConnectAddr, 10*time.Second)
		if err != nil {
			time.Sleep(settings.ReconnectInterval)
			continue
		}

		store, err := ini.storeFac.Create(id)
		if err != nil {
			conn.Close()
			time.Sleep(settings.ReconnectInterval)
			continue
		}
		var log Log
		if ini.logFac != nil {
			log, _ = ini.logFac.Create(id)
		}

		session := NewSession(id, settings, ini.app, store, ini.dict, log, ini.metrics, true)
		go session.runTimers()
		session.Connect(NewTCPTransport(conn))

		select {
		case <-ini.stop:
			return
		default:
			time.Sleep(settings.ReconnectInterval)
		}
	}
}

// Stop signals every initiator goroutine to exit instead of reconnecting.
func (ini *Initiator) Stop() {
	close(ini.stop)
}
