package core

import (
	"fmt"
	"reflect"
)

// Mock is a configurable stand-in for an interface or function type I.
//
// Interface mocks need a factory (see Register and automockgen) to build the
// object handed to code under test. Function mocks work out of the box.
type Mock[I any] struct {
	s *state
}

// NewMock creates a mock of I with the given mode and the DefaultEmpty policy.
// I must be an interface or function type.
func NewMock[I any](t TestReporter, mode Mode) *Mock[I] {
	typ := reflect.TypeFor[I]()

	if typ.Kind() != reflect.Interface && typ.Kind() != reflect.Func {
		t.Helper()
		t.Fatalf("%v: %v is neither an interface nor a function type", ErrUnmockableType, typ)

		return nil
	}

	return &Mock[I]{s: newState(t, typ, mode, DefaultEmpty)}
}

// Out returns results[index] as a T, or T's zero value if it is nil.
// Generated adapters use it to unpack the results of Called.
func Out[T any](results []any, index int) T {
	value, _ := results[index].(T)

	return value
}

// Called records a call of method with args and returns the results the mock
// is configured to give. Generated adapters call it; variadic arguments are
// passed flattened.
func (m *Mock[I]) Called(method string, args ...any) []any {
	return m.s.called(method, args)
}

// Child returns the mock created for a result of method under the
// DefaultMock policy, or nil if the method has not produced one yet.
func (m *Mock[I]) Child(method string) Handle {
	child := m.s.childOf(method, nil)
	if child == nil {
		return nil
	}

	return child
}

// DefaultValue returns the default value policy.
func (m *Mock[I]) DefaultValue() DefaultValue {
	return m.s.DefaultValue()
}

// Invocations returns the calls received so far.
func (m *Mock[I]) Invocations() []Invocation {
	return m.s.Invocations()
}

// Mode returns the strictness mode.
func (m *Mock[I]) Mode() Mode {
	return m.s.Mode()
}

// Object returns the instance to hand to code under test. Every call returns
// the same instance. Calls on it are answered by this mock's setups as they
// are when the call happens.
func (m *Mock[I]) Object() I {
	var zero I

	value, err := m.s.ObjectValue()
	if err != nil {
		m.s.t.Helper()
		m.s.t.Fatalf("%v", err)

		return zero
	}

	object, ok := value.Interface().(I)
	if !ok {
		return zero
	}

	return object
}

// ObjectValue returns the instance as a reflect.Value of type I.
func (m *Mock[I]) ObjectValue() (reflect.Value, error) {
	return m.s.ObjectValue()
}

// On configures calls of method whose arguments match args. Each arg is a
// value compared with reflect.DeepEqual or a Matcher. Later setups take
// precedence over earlier ones.
func (m *Mock[I]) On(method string, args ...any) *Setup {
	sig, err := m.s.signature(method)
	if err != nil {
		m.s.t.Helper()
		m.s.t.Fatalf("%v", err)

		return m.detachedSetup(method, reflect.TypeFor[func()]())
	}

	prepared, err := prepareArgs(sig, args)
	if err != nil {
		m.s.t.Helper()
		m.s.t.Fatalf("%s.%s: %v", m.s.typ, method, err)

		return m.detachedSetup(method, sig)
	}

	setup := &Setup{state: m.s, method: method, sig: sig, args: prepared}

	m.s.mu.Lock()
	m.s.setups = append(m.s.setups, setup)
	m.s.mu.Unlock()

	return setup
}

// OnCall configures calls of a function mock.
func (m *Mock[I]) OnCall(args ...any) *Setup {
	return m.On("", args...)
}

// Reset forgets every setup and recorded call.
func (m *Mock[I]) Reset() {
	m.s.Reset()
}

// SetDefaultValue changes the default value policy.
func (m *Mock[I]) SetDefaultValue(policy DefaultValue) {
	m.s.SetDefaultValue(policy)
}

// SetMode changes the strictness mode.
func (m *Mock[I]) SetMode(mode Mode) {
	m.s.SetMode(mode)
}

// String names the mock for failure messages.
func (m *Mock[I]) String() string {
	return fmt.Sprintf("%s mock of %v", m.s.Mode(), m.s.typ)
}

// Type returns the mocked type.
func (m *Mock[I]) Type() reflect.Type {
	return m.s.typ
}

// Verify checks every setup marked Verifiable.
func (m *Mock[I]) Verify() error {
	return m.s.Verify()
}

// VerifyAll checks every setup, marked Verifiable or not.
func (m *Mock[I]) VerifyAll() error {
	return m.s.VerifyAll()
}

// VerifyCall checks that method was called with matching args the expected
// number of times, whether or not a setup handled those calls.
func (m *Mock[I]) VerifyCall(times Times, method string, args ...any) error {
	return m.s.verifyCall(times, method, args)
}

// WithDefaultValue changes the default value policy and returns the mock for chaining.
func (m *Mock[I]) WithDefaultValue(policy DefaultValue) *Mock[I] {
	m.s.SetDefaultValue(policy)

	return m
}

// WithMode changes the strictness mode and returns the mock for chaining.
func (m *Mock[I]) WithMode(mode Mode) *Mock[I] {
	m.s.SetMode(mode)

	return m
}

// ChildOf returns the typed child mock created for a result of method under
// the DefaultMock policy. It fails the test if there is none.
func ChildOf[C, I any](m *Mock[I], method string) *Mock[C] {
	child := m.s.childOf(method, reflect.TypeFor[C]())
	if child == nil {
		m.s.t.Helper()
		m.s.t.Fatalf("%v: %s of %v has produced no %v child mock", ErrNoMatchingMock, method, m.s.typ, reflect.TypeFor[C]())

		return nil
	}

	return &Mock[C]{s: child}
}

// detachedSetup returns a setup that is not registered, so chained calls
// after a reported misuse do not panic.
func (m *Mock[I]) detachedSetup(method string, sig reflect.Type) *Setup {
	return &Setup{state: m.s, method: method, sig: sig}
}
