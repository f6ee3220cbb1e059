// Package log configures the process logger and adapts it to the GraphQL
// engine and the HTTP servers.
package log

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w at the named level using the named
// format ("json" or "text"). An unknown level falls back to info and is
// reported as a warning on the returned logger.
func New(w io.Writer, level, format string) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.Out = w
	switch strings.ToLower(format) {
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithError(err).Warn("using info log level")
		lvl = logrus.InfoLevel
	}
	l.Level = lvl
	return l
}

// PanicLogger logs panics recovered by the GraphQL engine during query
// execution. It satisfies the engine's log.Logger interface.
type PanicLogger struct {
	Logger logrus.FieldLogger
}

// LogPanic is used to log recovered panic values that occur during query execution.
func (l *PanicLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	l.Logger.WithFields(logrus.Fields{
		"panic": value,
		"stack": string(buf),
	}).Error("graphql: panic occurred")
}
