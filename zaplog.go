package modbus

import "go.uber.org/zap"

// ZapLogger adapts a zap.SugaredLogger to Logger. Trace is wired to Debug
// level (wire/state detail, usually silent in production) and Event to
// Info level.
type ZapLogger struct {
	Sugar *zap.SugaredLogger
}

// NewZapLogger wraps z as a Logger.
func NewZapLogger(z *zap.Logger) ZapLogger {
	return ZapLogger{Sugar: z.Sugar()}
}

func (l ZapLogger) Trace(msg string, kv ...interface{}) {
	l.Sugar.Debugw(msg, kv...)
}

func (l ZapLogger) Event(msg string, kv ...interface{}) {
	l.Sugar.Infow(msg, kv...)
}
