// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Managers take a plain *zap.Logger; use Component to derive one per
// subsystem and OrNop where a nil logger is allowed.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	supervisorLog := logger.Component("supervisor")
//	supervisorLog.Info("process started", zap.String("process_id", id))
package logging
