package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a named structured logger shared across components.
type Logger struct {
	*logrus.Entry
}

// New creates a logger for the given component at the given level.
func New(component string, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(level)
	return &Logger{Entry: l.WithField("component", component)}
}

// NewDefault creates a component logger at info level.
func NewDefault(component string) *Logger {
	return New(component, logrus.InfoLevel)
}

// Named returns a child logger for a sub-component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Entry: l.WithField("component", component)}
}
