package core

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// NewLogger returns a new pre-configured logger writing to stderr
func NewLogger(level uint32) *log.Logger {
	return newLoggerTo(os.Stderr, level)
}

func newLoggerTo(w io.Writer, level uint32) *log.Logger {
	logger := log.New()

	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})
	logger.SetLevel(log.Level(level))

	return logger
}
