package core

//go:generate stringer -type=Mode,DefaultValue

// Mode controls how a mock answers calls no setup matches.
type Mode int

// Modes.
const (
	// Loose mocks return default values for unconfigured calls.
	Loose Mode = iota
	// Strict mocks panic with a *CallError for unconfigured calls.
	Strict
)

// Inverse returns the other mode.
func (m Mode) Inverse() Mode {
	if m == Strict {
		return Loose
	}

	return Strict
}

// DefaultValue is the policy a loose mock uses to build results for
// unconfigured calls.
type DefaultValue int

// Default value policies.
const (
	// DefaultEmpty returns zero values, with empty (non-nil) slices and maps.
	DefaultEmpty DefaultValue = iota
	// DefaultMock returns loose child mocks for mockable interface and function
	// results, and DefaultEmpty values for everything else.
	DefaultMock
)
