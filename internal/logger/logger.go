package logger

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. LOG_LEVEL=debug switches to
// the development config; anything else gets production JSON output.
func NewLogger() *zap.Logger {
	var log *zap.Logger
	var err error

	if os.Getenv("LOG_LEVEL") == "debug" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}

	return log
}
