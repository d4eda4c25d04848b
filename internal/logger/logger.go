// Package logger builds the application's logrus logger.
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out. Unknown levels fall back to info;
// format "json" selects the JSON formatter, anything else plain text.
func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	log.SetOutput(out)
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New("panic", "text", io.Discard)
}
