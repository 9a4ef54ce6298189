// Package logger holds the process-wide structured logger
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Options configure the global logger
type Options struct {
	Level  string
	Format string // "json" or "text"
	Output io.Writer
}

// Init applies opts to the global logger. An unknown level falls back to
// info with a warning.
func Init(opts Options) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	Log.SetOutput(opts.Output)

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", opts.Level, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	if strings.ToLower(opts.Format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
}

// Get returns the configured global logger
func Get() *logrus.Logger {
	return Log
}

// WithComponent returns an entry tagged with the component name
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
