// Package log is the logging facade used throughout har. Nothing is logged
// until a caller installs a logger with Set.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log logrus.FieldLogger = discard()

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Set installs logger; nil restores the discarding default.
func Set(logger logrus.FieldLogger) {
	if logger == nil {
		logger = discard()
	}
	Log = logger
}

func Errorf(format string, args ...interface{}) {
	Log.Errorf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	Log.Warnf(format, args...)
}

func Infof(format string, args ...interface{}) {
	Log.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	Log.Debugf(format, args...)
}

func WithField(key string, value interface{}) logrus.FieldLogger {
	return Log.WithField(key, value)
}
