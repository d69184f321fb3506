// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Options controls logger initialization.
type Options struct {
	Level string // debug, info, warn, error
	File  string // optional log file; stdout only when empty
}

// Init initializes the global logger. Safe to call more than once; only the
// first call takes effect.
func Init(opts Options) {
	once.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)

		if opts.File != "" {
			// Rotating file plus stdout, so a desktop session is still
			// observable from a terminal.
			rotated := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     30, // days
			}
			logger.SetOutput(io.MultiWriter(os.Stdout, rotated))
		} else {
			logger.SetOutput(os.Stdout)
		}
	})
}

// Get returns the global logger, initializing with defaults if needed.
func Get() *logrus.Logger {
	if logger == nil {
		Init(Options{Level: "info"})
	}
	return logger
}

// WithComponent returns an entry tagged with the originating component.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
