package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns the process logger. Production defaults to JSON output,
// everything else to text. Unknown levels fall back to info.
func New(env, level, format string) *logrus.Logger {
	return NewWithOutput(os.Stdout, env, level, format)
}

func NewWithOutput(w io.Writer, env, level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if format == "" && strings.EqualFold(strings.TrimSpace(env), "production") {
		format = "json"
	}
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
