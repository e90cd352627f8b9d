package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. Production environments get
// JSON output, everything else a human readable text format.
func Setup(appEnv, level string) {
	configure(logrus.StandardLogger(), os.Stdout, appEnv, level)
}

func configure(l *logrus.Logger, out io.Writer, appEnv, level string) {
	l.SetOutput(out)

	switch strings.ToLower(appEnv) {
	case "prod", "production", "release":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
}
