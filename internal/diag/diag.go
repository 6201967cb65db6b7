// Package diag is a thin logrus wrapper used for operational tracing: the
// layout engine's per-iteration width changes and the template
// instantiations in pkg/asm. The CLI only sets its level (--log-level).
// Nothing here influences assembled bytes — Assemble and
// Template.Instantiate never block on or branch on a log call, so the
// logger is a side channel for operators, not a computation dependency.
package diag

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled logging surface the rest of this module depends
// on, trimmed to the subset the assembler and CLI actually use.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

var base = logrus.New()

func init() {
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.WarnLevel)
}

// SetLevel sets the package-level verbosity. Accepted names match
// logrus's own: "panic", "fatal", "error", "warn", "info", "debug",
// "trace".
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// New returns a Logger carrying no fields, rooted at the package-level
// base logger.
func New() Logger {
	return &logrusLogger{entry: logrus.NewEntry(base)}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}
