package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	return newLogger(level, os.Stdout)
}

func newLogger(level string, w io.Writer) *Logger {
	var l zerolog.Level

	switch strings.ToLower(level) {
	case "error":
		l = zerolog.ErrorLevel
	case "warn":
		l = zerolog.WarnLevel
	case "info":
		l = zerolog.InfoLevel
	case "debug":
		l = zerolog.DebugLevel
	default:
		l = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(l)

	skipFrameCount := 3
	logger := zerolog.New(w).Level(l).With().Timestamp().CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + skipFrameCount).Logger()

	return &Logger{
		logger: &logger,
	}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg("debug", message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.log(l.logger.Info(), message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(l.logger.Warn(), message, args...)
}

func (l *Logger) Error(message interface{}, args ...interface{}) {
	if l.logger.GetLevel() == zerolog.DebugLevel {
		l.Debug(message, args...)
	}

	l.msg("error", message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg("fatal", message, args...)

	os.Exit(1)
}

func (l *Logger) log(e *zerolog.Event, message string, args ...interface{}) {
	if len(args) == 0 {
		e.Msg(message)
	} else {
		e.Msgf(message, args...)
	}
}

// msg accepts an error as message, in which case args carry the call site:
// l.Error(err, "PostUseCase - DeleteDraft").
func (l *Logger) msg(level string, message interface{}, args ...interface{}) {
	var e *zerolog.Event

	switch level {
	case "debug":
		e = l.logger.Debug()
	case "fatal":
		e = l.logger.Fatal()
	default:
		e = l.logger.Error()
	}

	switch msg := message.(type) {
	case error:
		if len(args) > 0 {
			if where, ok := args[0].(string); ok {
				e = e.Str("where", where)
			}
		}
		e.Err(msg).Msg(msg.Error())
	case string:
		l.log(e, msg, args...)
	default:
		e.Msg(fmt.Sprintf("%s message %v has unknown type %T", level, message, msg))
	}
}
