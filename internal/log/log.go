// Package log provides the leveled logger shared by the front end and the
// driver. Messages go to stderr through logrus; colors are only used when
// stderr is a terminal.
package log

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    !isTerminal(w),
	})
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// SetLevel accepts trace, debug, info, warn, warning, error, fatal and panic.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level `%s`", level)
	}
	logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	if f, ok := logger.Formatter.(*logrus.TextFormatter); ok {
		f.DisableColors = !isTerminal(w)
	}
}

// IsTrace reports whether trace messages are written. Callers use it to
// avoid building expensive trace arguments.
func IsTrace() bool {
	return logger.IsLevelEnabled(logrus.TraceLevel)
}

func IsDebug() bool {
	return logger.IsLevelEnabled(logrus.DebugLevel)
}

func Trace(format string, v ...any) {
	logger.Tracef(format, v...)
}

func Debug(format string, v ...any) {
	logger.Debugf(format, v...)
}

func Info(format string, v ...any) {
	logger.Infof(format, v...)
}

func Warn(format string, v ...any) {
	logger.Warnf(format, v...)
}

func Error(format string, v ...any) {
	logger.Errorf(format, v...)
}
