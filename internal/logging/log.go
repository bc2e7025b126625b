// Package logging wraps a process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLog *logrus.Logger

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return log
}

func init() {
	defaultLog = newLogger()
}

// SetDebug switches to DEBUG level.
func SetDebug() {
	setLevel(defaultLog, logrus.DebugLevel)
}

// SetError only lets errors through. Used when stdout carries JSON.
func SetError() {
	setLevel(defaultLog, logrus.ErrorLevel)
}

// setLevel sets the level of the provided logger.
func setLevel(logger *logrus.Logger, level logrus.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the default logger, e.g. to a command's stderr.
func SetOutput(w io.Writer) {
	defaultLog.SetOutput(w)
}

// WithField returns an entry carrying one field.
func WithField(key string, value interface{}) *logrus.Entry {
	return defaultLog.WithField(key, value)
}

// Debug - Debug message
func Debug(args ...interface{}) {
	defaultLog.Debug(args...)
}

// Debugf - Debug message
func Debugf(format string, args ...interface{}) {
	defaultLog.Debugf(format, args...)
}

// Errorf - Error message
func Errorf(format string, args ...interface{}) {
	defaultLog.Errorf(format, args...)
}

// Infof - Info message
func Infof(format string, args ...interface{}) {
	defaultLog.Infof(format, args...)
}

// Warn - Warn message
func Warn(args ...interface{}) {
	defaultLog.Warn(args...)
}

// Warnf - Warn message
func Warnf(format string, args ...interface{}) {
	defaultLog.Warnf(format, args...)
}
