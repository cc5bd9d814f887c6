// Package core provides the internal implementation of automock's mock
// runtime and constructor fixtures.
package core

// TestReporter is the minimal interface automock needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

// logReporter is satisfied by reporters that can log without failing,
// like *testing.T.
type logReporter interface {
	Logf(format string, args ...any)
}

// logf logs through t if it supports logging. Reporters without Logf stay silent.
func logf(t TestReporter, format string, args ...any) {
	if t == nil {
		return
	}

	if l, ok := t.(logReporter); ok {
		t.Helper()
		l.Logf(format, args...)
	}
}
