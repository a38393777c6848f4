// Package logging wraps go.uber.org/zap with the handful of fields
// every log line in this store needs (component, file generation),
// matching rpcpool-yellowstone-faithful's convention of a thin
// *zap.Logger wrapper plumbed through constructors rather than a global.
// The teacher (mebo) is a pure library with no logger; this is an
// ambient addition the store's orchestrator, compactor, and WAL replay
// path all need.
package logging

import "go.uber.org/zap"

// Logger is the shared structured logger type used across packages.
type Logger = zap.Logger

// New builds a production logger (JSON encoding, info level).
func New() (*Logger, error) {
	return zap.NewProduction()
}

// Nop returns a logger that discards everything, for tests and for
// callers that pass no wax.WithLogger option to wax.Open.
func Nop() *Logger {
	return zap.NewNop()
}

// Named returns a child logger tagged with the owning component, e.g.
// logging.Named(base, "wal") or logging.Named(base, "compactor").
func Named(base *Logger, component string) *Logger {
	return base.Named(component)
}
