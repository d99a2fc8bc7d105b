package logging

import (
	"github.com/sirupsen/logrus"
)

// logrusAdapter backs the Logger interface with logrus.
type logrusAdapter struct {
	entry *logrus.Entry
}

// New creates a logrus-backed Logger with the given level ("debug", "info",
// "warn", "error") and format ("json" or "text"). Invalid levels fall back
// to "info".
func New(level, format string) Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &logrusAdapter{entry: logrus.NewEntry(logger)}
}

// FromLogrus wraps an existing logrus logger, for callers that already
// configure logrus themselves.
func FromLogrus(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &logrusAdapter{entry: logrus.NewEntry(logger)}
}

func (a *logrusAdapter) withFields(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return a.entry
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return a.entry.WithFields(lf)
}

func (a *logrusAdapter) Debug(msg string, fields ...Field) {
	a.withFields(fields).Debug(msg)
}

func (a *logrusAdapter) Info(msg string, fields ...Field) {
	a.withFields(fields).Info(msg)
}

func (a *logrusAdapter) Warn(msg string, fields ...Field) {
	a.withFields(fields).Warn(msg)
}

func (a *logrusAdapter) Error(msg string, fields ...Field) {
	a.withFields(fields).Error(msg)
}

func (a *logrusAdapter) WithField(key string, value any) Logger {
	return &logrusAdapter{entry: a.entry.WithField(key, value)}
}
