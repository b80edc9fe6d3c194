package server

import (
	"go.uber.org/zap"
)

// Package logger, a no-op by default. Commands install a real logger
// via SetLogger.
var log = zap.NewNop().Sugar()

// SetLogger replaces the package logger.
func SetLogger(l *zap.Logger) {
	log = l.Sugar()
}
