// Package logger holds the process-wide zap logger.
package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the shared logger, valid after InitLogger.
var Log *zap.Logger

// InitLogger initializes the production zap logger.
func InitLogger() {
	var err error
	Log, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}
