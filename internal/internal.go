// Package internal contains internal implementation details.
package internal

// NullLogger is a [dlsim.Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements dlsim.Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements dlsim.Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements dlsim.Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements dlsim.Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements dlsim.Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements dlsim.Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}
