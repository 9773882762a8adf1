// Package logger builds the process-wide logrus logger.
package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/funvibe/klass/internal/config"
)

var (
	once sync.Once
	lg   *logrus.Logger
)

// Logger returns the shared logger, configured from KLASS_LOG_LEVEL and
// KLASS_LOG_FORMAT on first use.
func Logger() *logrus.Logger {
	once.Do(func() {
		lg = New(config.LogLevel(), config.LogFormat())
	})
	return lg
}

// New creates a logger writing to stderr. An unparsable level falls back
// to the default with a warning.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if format == config.LogFormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl, _ = logrus.ParseLevel(config.DefaultLogLevel)
		l.SetLevel(lvl)
		l.WithError(err).Warn("invalid log level, using default")
		return l
	}
	l.SetLevel(lvl)
	return l
}
