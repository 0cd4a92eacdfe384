package readalong

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// logger is shared by every component in the package. Engine code runs on a
// single logical thread, but the timer and poll goroutines log too; logrus
// entries are safe for concurrent use.
var logger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger replaces the package logger. Passing nil discards all output.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		l = quiet
	}
	logger = l
}

// Logger returns the package logger.
func Logger() logrus.FieldLogger {
	return logger
}

// NewLogger builds a logrus logger at the named level ("debug", "info",
// "warn", "error"). When asJSON is true entries are emitted with the JSON
// formatter, otherwise as text.
func NewLogger(out io.Writer, level string, asJSON bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	if asJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l, nil
}
