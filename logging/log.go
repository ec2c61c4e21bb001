/*
Package logging is the structured logger used by the benchmark driver, the
executor service and the CLI. The guest core never logs.

To log to the base logger:

	logging.Base().Info("hash workload proved")

To log with context:

	logging.Base().WithFields(logging.Fields{"op": "merkle", "repeat": 2}).Info("proving")
*/
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus levels, most severe first.
type Level uint32

const (
	Panic Level = iota
	Fatal
	Error
	Warn
	Info
	Debug
)

// Fields is an alias so callers need not import logrus.
type Fields = logrus.Fields

// Logger is the logging surface used across the module.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})

	With(key string, value interface{}) Logger
	WithFields(Fields) Logger
	WithError(error) Logger

	SetLevel(Level)
	GetLevel() Level
	IsLevelEnabled(Level) bool
	SetOutput(io.Writer)
	SetJSONFormatter()
}

var (
	baseLogger Logger
	once       sync.Once
)

// Init sets up the base logger at Info. It runs automatically.
func Init() {
	once.Do(func() {
		baseLogger = NewLogger()
	})
}

func init() {
	Init()
}

// Base returns the process-wide logger.
func Base() Logger {
	return baseLogger
}

// NewLogger returns an independent logger writing text to stderr at Info.
func NewLogger() Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	if tf, ok := l.Formatter.(*logrus.TextFormatter); ok {
		tf.TimestampFormat = "2006-01-02T15:04:05.000000 -0700"
		tf.FullTimestamp = true
	}
	return logger{entry: logrus.NewEntry(l)}
}

// ParseLevel maps a level name ("debug", "info", "warn", ...) to a Level.
func ParseLevel(name string) (Level, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return Info, fmt.Errorf("logging: %w", err)
	}
	if lvl > logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}
	return Level(lvl), nil
}

type logger struct {
	entry *logrus.Entry
}

func (l logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l logger) Fatal(args ...interface{})                 { l.entry.Fatal(args...) }
func (l logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l logger) With(key string, value interface{}) Logger {
	return logger{entry: l.entry.WithField(key, value)}
}

func (l logger) WithFields(fields Fields) Logger {
	return logger{entry: l.entry.WithFields(fields)}
}

func (l logger) WithError(err error) Logger {
	return logger{entry: l.entry.WithError(err)}
}

func (l logger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(logrus.Level(lvl))
}

func (l logger) GetLevel() Level {
	return Level(l.entry.Logger.GetLevel())
}

func (l logger) IsLevelEnabled(lvl Level) bool {
	return l.entry.Logger.IsLevelEnabled(logrus.Level(lvl))
}

func (l logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

func (l logger) SetJSONFormatter() {
	l.entry.Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000000Z07:00"})
}
