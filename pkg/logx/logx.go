// Package logx provides a minimal logging facade, so that components
// don't depend on a concrete logger implementation.
package logx

import "log"

// Logger defines an interface for a single logger method.
type Logger interface {
	Printf(s string, args ...interface{})
}

// LoggerFunc is an adapter to use ordinary functions as Logger.
type LoggerFunc func(string, ...interface{})

// Printf calls the wrapped func.
func (f LoggerFunc) Printf(s string, args ...interface{}) { f(s, args...) }

// Nop logs literally nothing.
func Nop() Logger { return LoggerFunc(func(string, ...interface{}) {}) }

// Std logs via the standard library logger, which output is controlled
// by the level filter installed in main.
func Std() Logger { return LoggerFunc(log.Printf) }
