// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the daemon, the CLI commands and
// the admin HTTP surface.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry, so every log line of one admin
// request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Reconciler started", zap.String("region", "us-east-1"))
package logger
