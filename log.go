package quickfix

import "go.uber.org/zap"

// LogFactory creates a Log scoped to one session. Grounded on the session
// logging abstraction real quickfix engines expose (a per-session log
// rather than one global logger), backed here by zap's structured logger
// instead of a bespoke interface.
type LogFactory interface {
	Create(sessionID SessionID) (Log, error)
}

// Log receives the raw bytes of every message sent and received on a
// session, plus free-form session events, tagged with the session's
// identity.
type Log interface {
	OnIncoming(msg string)
	OnOutgoing(msg string)
	OnEvent(text string)
	OnEventf(format string, args ...interface{})
}

// ZapLogFactory creates session loggers backed by a shared *zap.Logger,
// each tagged with its SessionID as a structured field.
type ZapLogFactory struct {
	Base *zap.Logger
}

func NewZapLogFactory(base *zap.Logger) ZapLogFactory {
	return ZapLogFactory{Base: base}
}

func (f ZapLogFactory) Create(sessionID SessionID) (Log, error) {
	return &zapLog{
		logger: f.Base.With(zap.String("session", sessionID.String())),
	}, nil
}

type zapLog struct {
	logger *zap.Logger
}

func (l *zapLog) OnIncoming(msg string) {
	l.logger.Debug("incoming", zap.String("fix", msg))
}

func (l *zapLog) OnOutgoing(msg string) {
	l.logger.Debug("outgoing", zap.String("fix", msg))
}

func (l *zapLog) OnEvent(text string) {
	l.logger.Info(text)
}

func (l *zapLog) OnEventf(format string, args ...interface{}) {
	l.logger.Sugar().Infof(format, args...)
}
