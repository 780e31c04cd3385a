// Package logger provides structured logging for the savedata manager.
//
// It wraps zerolog behind a small Logger interface. Console output is written
// to stderr so it never tears the progress bar drawn on stdout; when a log file
// is configured, JSON lines are appended to it instead.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("checkpoint", "ep3").Info("Replacing savedata")
//
// Tests can use NewNopLogger to discard output or NewTestLogger to capture it:
//
//	tl := logger.NewTestLogger()
//	// ... exercise code with tl ...
//	if !tl.HasMessage("Silent backup failed") { ... }
package logger
