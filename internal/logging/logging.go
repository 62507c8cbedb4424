// Package logging wraps github.com/tliron/commonlog behind a small Logger
// interface, so the resolver and splitter can narrate what they're doing
// (which guard a case split produced, what range a loop reduced to) without
// depending on commonlog's wider logger-registry API directly.
package logging

import (
	"github.com/tliron/commonlog"
)

// Logger is the narrow surface internal/ir needs from a logger.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

type commonLogger struct {
	backend commonlog.Logger
}

// New wraps a commonlog.Logger obtained from commonlog.GetLogger(name).
func New(name string) Logger {
	return &commonLogger{backend: commonlog.GetLogger(name)}
}

func (l *commonLogger) Debugf(format string, args ...interface{}) {
	l.backend.Debugf(format, args...)
}

func (l *commonLogger) Infof(format string, args ...interface{}) {
	l.backend.Infof(format, args...)
}

func (l *commonLogger) Warningf(format string, args ...interface{}) {
	l.backend.Warningf(format, args...)
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{})   {}
func (discardLogger) Infof(string, ...interface{})    {}
func (discardLogger) Warningf(string, ...interface{}) {}

// Discard returns a Logger that drops everything, for callers (and most
// tests) that don't want commonlog's backend configured at all.
func Discard() Logger { return discardLogger{} }
