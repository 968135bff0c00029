// Package logrus adapts a logrus entry to logger.Logger.
package logrus

import (
	"github.com/raykavin/sonify/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Adapter exposes a logrus entry as logger.Logger
type Adapter struct {
	*logrus.Entry
}

// NewAdapter wraps l
func NewAdapter(l *logrus.Logger) *Adapter {
	return &Adapter{logrus.NewEntry(l)}
}

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{a.Entry.WithError(err)}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{a.Entry.WithField(key, value)}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{a.Entry.WithFields(fields)}
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	if l, ok := levels[a.Logger.GetLevel()]; ok {
		return l
	}
	return logger.NoLevel
}

// SetLevel implements logger.Logger. logrus keeps the level on the logger shared by every
// entry, so the adapter switches to a copy of it and only this adapter is affected.
// logrus has no disabled level, so Disabled maps to panic, the quietest one.
func (a *Adapter) SetLevel(level logger.Level) {
	target := logrus.PanicLevel
	for ll, l := range levels {
		if l == level {
			target = ll
			break
		}
	}

	base := a.Entry.Logger
	entry := a.Entry.Dup()
	entry.Logger = &logrus.Logger{
		Out:          base.Out,
		Hooks:        base.Hooks,
		Formatter:    base.Formatter,
		ReportCaller: base.ReportCaller,
		ExitFunc:     base.ExitFunc,
		Level:        target,
	}
	a.Entry = entry
}

var levels = map[logrus.Level]logger.Level{
	logrus.TraceLevel: logger.TraceLevel,
	logrus.DebugLevel: logger.DebugLevel,
	logrus.InfoLevel:  logger.InfoLevel,
	logrus.WarnLevel:  logger.WarnLevel,
	logrus.ErrorLevel: logger.ErrorLevel,
	logrus.FatalLevel: logger.FatalLevel,
	logrus.PanicLevel: logger.PanicLevel,
}
