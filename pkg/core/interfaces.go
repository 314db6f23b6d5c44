package core

import "log"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything written to it
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// Compile-time check that the standard library logger satisfies Logger
var _ Logger = (*log.Logger)(nil)
