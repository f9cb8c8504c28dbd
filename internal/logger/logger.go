package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry scoped to a named component.
type Logger struct {
	entry *logrus.Entry
}

var (
	root *logrus.Logger
	def  *Logger
	once sync.Once
)

// InitLogger initializes the default logger. level accepts the usual logrus
// names (debug, info, warn, error); unknown values fall back to info.
func InitLogger(level string, component string) {
	once.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stdout)
		root.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		root.SetLevel(lvl)
		def = &Logger{entry: root.WithField("component", component)}
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if def == nil {
		InitLogger("info", "default")
	}
	return def
}

// WithComponent creates a new logger with the specified component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{entry: l.entry.Logger.WithField("component", component)}
}

// WithError attaches an error to subsequent log lines
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info logs info level messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs error level messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Fatal logs fatal level messages and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}
