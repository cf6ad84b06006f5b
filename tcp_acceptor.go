package quickfix

import (
	"net"
	"sync"
)

// Acceptor listens on one TCP port per distinct SocketAcceptAddr in
// settings and spins up a Session for each inbound connection, matched to
// its configured SessionID once the peer's Logon reveals its comp IDs.
type Acceptor struct {
	app      Application
	settings *Settings
	storeFac StoreFactory
	dict     *DataDictionary
	logFac   LogFactory
	metrics  *Metrics

	mu        sync.Mutex
	listeners []net.Listener
}

// NewAcceptor constructs an Acceptor for every session in settings whose
// ConnectionType is "acceptor".
func NewAcceptor(app Application, settings *Settings, storeFac StoreFactory, dict *DataDictionary, logFac LogFactory, metrics *Metrics) *Acceptor {
	return &Acceptor{
		app:      app,
		settings: settings,
		storeFac: storeFac,
		dict:     dict,
		logFac:   logFac,
		metrics:  metrics,
	}
}

// Start opens a listener for every distinct SocketAcceptAddr configured
// and begins accepting connections in the background.
func (a *Acceptor) Start() error {
	seen := make(map[string]bool)
	for _, sess := range a.settings.Sessions {
		if sess.ConnectionType != "acceptor" || seen[sess.SocketAcceptAddr] {
			continue
		}
		seen[sess.SocketAcceptAddr] = true

		ln, err := net.Listen("tcp", ":"+sess.SocketAcceptAddr)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.listeners = append(a.listeners, ln)
		a.mu.Unlock()
		go a.acceptLoop(ln)
	}
	return nil
}

func (a *Acceptor) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go a.handleConn(conn)
	}
}

// handleConn reads the first message off conn expecting a Logon, uses its
// header to identify which configured SessionID it belongs to, then hands
// the connection off to that session for the remainder of its lifetime.
func (a *Acceptor) handleConn(conn net.Conn) {
	transport := NewTCPTransport(conn)
	raw, err := transport.ReadMessage()
	if err != nil {
		conn.Close()
		return
	}

	msg, _ := ParseMessageWithDictionary(raw, a.dict)
	peerID, err := msg.SessionID()
	if err != nil {
		conn.Close()
		return
	}

	settings, ok := a.settings.Sessions[peerID]
	if !ok {
		conn.Close()
		return
	}

	store, err := a.storeFac.Create(peerID)
	if err != nil {
		conn.Close()
		return
	}
	var log Log
	if a.logFac != nil {
		log, _ = a.logFac.Create(peerID)
	}

	session := NewSession(peerID, settings, a.app, store, a.dict, log, a.metrics, false)
	go session.runTimers()
	session.onMessage(msg)
	session.Connect(transport)
}

// Stop closes every listener, causing acceptLoop goroutines to exit.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ln := range a.listeners {
		ln.Close()
	}
}
