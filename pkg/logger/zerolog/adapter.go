package zerolog

import (
	"fmt"

	"github.com/raykavin/sonify/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog logger as logger.Logger
type Adapter struct {
	log *zerolog.Logger
}

// NewAdapter wraps l
func NewAdapter(l *zerolog.Logger) *Adapter {
	return &Adapter{log: l}
}

// Nop returns an adapter that discards everything
func Nop() *Adapter {
	l := zerolog.Nop()
	return &Adapter{log: &l}
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.log.GetLevel())
}

// SetLevel implements logger.Logger. Only this adapter is affected.
func (a *Adapter) SetLevel(level logger.Level) {
	l := a.log.Level(toZerologLevel(level))
	a.log = &l
}

func (a *Adapter) Print(args ...any) { a.log.Print(args...) }
func (a *Adapter) Trace(args ...any) { a.log.Trace().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Debug(args ...any) { a.log.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)  { a.log.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)  { a.log.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any) { a.log.Error().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Fatal(args ...any) { a.log.Fatal().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Panic(args ...any) { a.log.Panic().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Printf(format string, args ...any) { a.log.Printf(format, args...) }
func (a *Adapter) Tracef(format string, args ...any) { a.log.Trace().Msgf(format, args...) }
func (a *Adapter) Debugf(format string, args ...any) { a.log.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.log.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.log.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.log.Error().Msgf(format, args...) }
func (a *Adapter) Fatalf(format string, args ...any) { a.log.Fatal().Msgf(format, args...) }
func (a *Adapter) Panicf(format string, args ...any) { a.log.Panic().Msgf(format, args...) }

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	l := a.log.With().Err(err).Logger()
	return &Adapter{log: &l}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	l := a.log.With().Interface(key, value).Logger()
	return &Adapter{log: &l}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	l := a.log.With().Fields(fields).Logger()
	return &Adapter{log: &l}
}

var levels = map[zerolog.Level]logger.Level{
	zerolog.Disabled:   logger.Disabled,
	zerolog.NoLevel:    logger.NoLevel,
	zerolog.TraceLevel: logger.TraceLevel,
	zerolog.DebugLevel: logger.DebugLevel,
	zerolog.InfoLevel:  logger.InfoLevel,
	zerolog.WarnLevel:  logger.WarnLevel,
	zerolog.ErrorLevel: logger.ErrorLevel,
	zerolog.FatalLevel: logger.FatalLevel,
	zerolog.PanicLevel: logger.PanicLevel,
}

func toLevel(level zerolog.Level) logger.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toZerologLevel(level logger.Level) zerolog.Level {
	for zl, l := range levels {
		if l == level {
			return zl
		}
	}
	return zerolog.NoLevel
}
