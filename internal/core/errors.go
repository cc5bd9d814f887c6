package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error automock produces wraps one of these.
var (
	ErrAmbiguousMock      = errors.New("ambiguous mock")
	ErrBadSetup           = errors.New("bad setup")
	ErrInvalidConstructor = errors.New("invalid constructor")
	ErrNoConstructor      = errors.New("no constructor")
	ErrNoMatchingMock     = errors.New("no matching mock")
	ErrUnexpectedCall     = errors.New("unexpected call")
	ErrUnmockableType     = errors.New("unmockable type")
	ErrVerification       = errors.New("mock verification failed")
)

// CallError is the panic value a strict mock raises for a call no setup
// matches. It unwraps to ErrUnexpectedCall.
type CallError struct {
	Type   string
	Method string
	Args   []any
	// Mismatches holds why each setup for Method rejected the call.
	Mismatches []string
}

// Error describes the unexpected call.
func (e *CallError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%v: %s(%s) on strict mock of %s", ErrUnexpectedCall, displayMethod(e.Method), formatArgs(e.Args), e.Type)

	for _, mismatch := range e.Mismatches {
		buf.WriteString("\n\t")
		buf.WriteString(mismatch)
	}

	return buf.String()
}

// Unwrap lets errors.Is match ErrUnexpectedCall.
func (e *CallError) Unwrap() error {
	return ErrUnexpectedCall
}

// displayMethod names the call target for messages. Function mocks have no method name.
func displayMethod(method string) string {
	if method == "" {
		return "call"
	}

	return method
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}

	return strings.Join(parts, ", ")
}
