// Package automock builds a type under test with every constructor
// dependency mocked.
//
//	fixture := automock.WithMocks[*Service](t, NewService)
//	automock.MockOf[Store](fixture).On("Get", "key").Return("value", nil).Verifiable()
//	fixture.Target().Handle("key")
//	fixture.Verify()
//
// Function-typed dependencies are mocked with reflection. Interface
// dependencies need a small adapter, generated by automockgen and registered
// from init.
//
// This is the public API entry point. Implementation lives in internal/core.
package automock

import (
	"reflect"

	"github.com/toejough/automock/internal/core"
)

// Modes.
const (
	Loose  = core.Loose
	Strict = core.Strict
)

// Default value policies.
const (
	DefaultEmpty = core.DefaultEmpty
	DefaultMock  = core.DefaultMock
)

// Sentinel errors, for use with errors.Is.
var (
	ErrAmbiguousMock      = core.ErrAmbiguousMock
	ErrBadSetup           = core.ErrBadSetup
	ErrInvalidConstructor = core.ErrInvalidConstructor
	ErrNoConstructor      = core.ErrNoConstructor
	ErrNoMatchingMock     = core.ErrNoMatchingMock
	ErrUnexpectedCall     = core.ErrUnexpectedCall
	ErrUnmockableType     = core.ErrUnmockableType
	ErrVerification       = core.ErrVerification
)

// CallError is the panic value of a strict mock's unconfigured call.
type CallError = core.CallError

// DefaultValue is the policy loose mocks use for unconfigured calls.
type DefaultValue = core.DefaultValue

// Fixture holds a target's constructor and the mocks of its parameters.
type Fixture[T any] = core.Fixture[T]

// Handle is the non-generic view of a mock.
type Handle = core.Handle

// Invocation is a call a mock received.
type Invocation = core.Invocation

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// Mock is a configurable stand-in for an interface or function type.
type Mock[I any] = core.Mock[I]

// Mode controls how a mock answers unconfigured calls.
type Mode = core.Mode

// Option configures Build.
type Option = core.Option

// Parameter describes one constructor parameter of a fixture.
type Parameter = core.Parameter

// Setup configures how a mock answers matching calls.
type Setup = core.Setup

// TestReporter is the minimal interface automock needs from test frameworks.
type TestReporter = core.TestReporter

// Times is an inclusive range of expected call counts.
type Times = core.Times

// AtLeast expects n or more calls.
func AtLeast(n int) Times { return core.AtLeast(n) }

// AtLeastOnce expects one or more calls.
func AtLeastOnce() Times { return core.AtLeastOnce() }

// AtMost expects between zero and n calls.
func AtMost(n int) Times { return core.AtMost(n) }

// Between expects between lo and hi calls, inclusive.
func Between(lo, hi int) Times { return core.Between(lo, hi) }

// Build selects the constructor with the most parameters and mocks its
// interface and function parameters, returning an error instead of failing
// the test.
func Build[T any](t TestReporter, ctors []any, opts ...Option) (*Fixture[T], error) {
	return core.Build[T](t, ctors, opts...)
}

// ChildOf returns the child mock a DefaultMock mock created for a result of method.
func ChildOf[C, I any](m *Mock[I], method string) *Mock[C] {
	return core.ChildOf[C](m, method)
}

// Exactly expects n calls.
func Exactly(n int) Times { return core.Exactly(n) }

// LookupMock returns the mock for the parameter of type I, or an error
// wrapping ErrNoMatchingMock or ErrAmbiguousMock.
func LookupMock[I, T any](f *Fixture[T]) (*Mock[I], error) {
	return core.LookupMock[I](f)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// MockAt returns the mock for the n-th parameter of type I.
func MockAt[I, T any](f *Fixture[T], n int) *Mock[I] {
	return core.MockAt[I](f, n)
}

// MockOf returns the mock for the parameter of type I, failing the test if
// there is none or more than one.
func MockOf[I, T any](f *Fixture[T]) *Mock[I] {
	return core.MockOf[I](f)
}

// Mockable reports whether mocks of typ can be built for t.
func Mockable(t TestReporter, typ reflect.Type) bool {
	return core.Mockable(t, typ)
}

// Never expects no calls.
func Never() Times { return core.Never() }

// NewMock creates a standalone mock of I.
func NewMock[I any](t TestReporter, mode Mode) *Mock[I] {
	return core.NewMock[I](t, mode)
}

// Once expects exactly one call.
func Once() Times { return core.Once() }

// Out returns results[index] as a T, or T's zero value.
func Out[T any](results []any, index int) T {
	return core.Out[T](results, index)
}

// Register makes factory build the objects of mocks of I, process-wide.
func Register[I any](factory func(*Mock[I]) I) (unregister func()) {
	return core.Register(factory)
}

// RegisterFor makes factory build the objects of mocks of I created with t,
// until t's cleanup.
func RegisterFor[I any](t TestReporter, factory func(*Mock[I]) I) {
	core.RegisterFor(t, factory)
}

// WithAlternate gives mocks of the listed types the inverse of the default mode.
func WithAlternate(types ...reflect.Type) Option {
	return core.WithAlternate(types...)
}

// WithAlternateFor is WithAlternate for one type parameter.
func WithAlternateFor[D any]() Option {
	return core.WithAlternateFor[D]()
}

// WithDefaultValue sets the default value policy of every mock.
func WithDefaultValue(policy DefaultValue) Option {
	return core.WithDefaultValue(policy)
}

// WithFactory builds mocks of I with factory for one fixture.
func WithFactory[I any](factory func(*Mock[I]) I) Option {
	return core.WithFactory(factory)
}

// WithMocks builds a fixture whose mocks are all loose.
func WithMocks[T any](t TestReporter, ctors ...any) *Fixture[T] {
	t.Helper()

	return WithMocksMode[T](t, Loose, nil, ctors...)
}

// WithMocksAlternate builds a fixture whose mocks use mode, except the mock
// of D, which uses the inverse.
func WithMocksAlternate[T, D any](t TestReporter, mode Mode, ctors ...any) *Fixture[T] {
	t.Helper()

	return WithMocksMode[T](t, mode, []reflect.Type{reflect.TypeFor[D]()}, ctors...)
}

// WithMocksAlternate2 builds a fixture whose mocks use mode, except the mocks
// of D1 and D2, which use the inverse.
func WithMocksAlternate2[T, D1, D2 any](t TestReporter, mode Mode, ctors ...any) *Fixture[T] {
	t.Helper()

	return WithMocksMode[T](t, mode, []reflect.Type{reflect.TypeFor[D1](), reflect.TypeFor[D2]()}, ctors...)
}

// WithMocksMode builds a fixture whose mocks use mode, except mocks of the
// alternate types, which use the inverse. Alternate types that match no
// parameter are ignored. A build error fails the test.
func WithMocksMode[T any](t TestReporter, mode Mode, alternate []reflect.Type, ctors ...any) *Fixture[T] {
	fixture, err := core.Build[T](t, ctors, core.WithMode(mode), core.WithAlternate(alternate...))
	if err != nil {
		t.Helper()
		t.Fatalf("%v", err)

		return nil
	}

	return fixture
}

// WithMode sets the default mode of every mock.
func WithMode(mode Mode) Option {
	return core.WithMode(mode)
}

// WithValue passes value to parameters of its dynamic type.
func WithValue(value any) Option {
	return core.WithValue(value)
}

// WithValueFor passes value to parameters of type P.
func WithValueFor[P any](value P) Option {
	return core.WithValueFor(value)
}
