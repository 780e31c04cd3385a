package logger

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// LogCopy logs a finished directory copy
func LogCopy(l Logger, src, dst string, files int, bytes int64, took time.Duration) {
	l.InfoWithFields("Directory copied", map[string]interface{}{
		"source":      src,
		"destination": dst,
		"files":       files,
		"size":        humanize.Bytes(uint64(bytes)),
		"duration":    took,
	})
}

// LogOperation logs the outcome of a replace, backup or recover. Failures are
// shown to the user by the caller, so both outcomes log at info and stay off
// the console at the default warn level.
func LogOperation(l Logger, op, target string, err error) {
	fields := map[string]interface{}{
		"operation": op,
		"target":    target,
		"success":   err == nil,
	}

	if err != nil {
		l.WithError(err).InfoWithFields("Operation failed", fields)
		return
	}
	l.InfoWithFields("Operation completed", fields)
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
