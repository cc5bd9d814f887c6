package core

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Handle is the non-generic view of a mock. Fixtures hold their mocks as
// Handles so mocks of different types can live in one collection.
type Handle interface {
	Type() reflect.Type
	Mode() Mode
	SetMode(mode Mode)
	DefaultValue() DefaultValue
	SetDefaultValue(policy DefaultValue)
	// ObjectValue returns the mock's underlying instance, typed as Type().
	ObjectValue() (reflect.Value, error)
	Verify() error
	VerifyAll() error
	Invocations() []Invocation
}

// Invocation is a call a mock received.
type Invocation struct {
	Method string
	Args   []any
	// Matched is true when a setup handled the call.
	Matched bool
}

// state is the untyped engine behind every Mock[I]. It implements Handle.
type state struct {
	t   TestReporter
	typ reflect.Type

	mu           sync.Mutex
	mode         Mode
	defaultValue DefaultValue
	factory      builder // overrides registry lookup when set
	setups       []*Setup
	calls        []Invocation
	object       reflect.Value
	built        bool
	children     map[string]*state
}

func newState(t TestReporter, typ reflect.Type, mode Mode, policy DefaultValue) *state {
	return &state{
		t:            t,
		typ:          typ,
		mode:         mode,
		defaultValue: policy,
		children:     make(map[string]*state),
	}
}

// DefaultValue returns the default value policy.
func (s *state) DefaultValue() DefaultValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.defaultValue
}

// Invocations returns a copy of the calls received so far.
func (s *state) Invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]Invocation, len(s.calls))
	copy(calls, s.calls)

	return calls
}

// Mode returns the strictness mode.
func (s *state) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// ObjectValue returns the underlying instance, building it on first use.
// The instance is built once; later calls return the same value.
func (s *state) ObjectValue() (reflect.Value, error) {
	s.mu.Lock()

	if s.built {
		object := s.object
		s.mu.Unlock()

		return object, nil
	}

	build := s.factory
	s.mu.Unlock()

	if build == nil {
		build = lookupBuilder(s.t, s.typ)
	}

	if build == nil {
		return reflect.Value{}, fmt.Errorf(
			"%w: no mock factory registered for %v (generate one with automockgen or pass WithFactory)",
			ErrUnmockableType, s.typ,
		)
	}

	// The factory runs unlocked: generated factories only capture the mock.
	object := build(s)
	if !object.IsValid() || (object.Kind() == reflect.Interface || object.Kind() == reflect.Func) && object.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: mock factory for %v returned nil", ErrUnmockableType, s.typ)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.built {
		s.object = object
		s.built = true
	}

	return s.object, nil
}

// Reset forgets every setup and recorded call. Mode and default value policy are kept.
func (s *state) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setups = nil
	s.calls = nil
}

// SetDefaultValue changes the default value policy.
func (s *state) SetDefaultValue(policy DefaultValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultValue = policy
}

// SetMode changes the strictness mode. It applies to calls made afterwards.
func (s *state) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
}

// Type returns the mocked type.
func (s *state) Type() reflect.Type {
	return s.typ
}

// Verify checks that every setup marked Verifiable was called the expected number of times.
func (s *state) Verify() error {
	return s.verify(func(setup *Setup) bool { return setup.verifiable })
}

// VerifyAll checks that every setup was called the expected number of times,
// whether or not it was marked Verifiable.
func (s *state) VerifyAll() error {
	return s.verify(func(*Setup) bool { return true })
}

// called records a call and answers it from the latest matching setup.
// Strict mocks panic with a *CallError when nothing matches.
func (s *state) called(method string, args []any) []any {
	sig, err := s.signature(method)
	if err != nil {
		panic(err)
	}

	// Matchers are user code and may call back into this mock, so they run
	// without s.mu held.
	setup, mismatches := findSetup(s.snapshotSetups(), method, args)

	s.mu.Lock()
	s.calls = append(s.calls, Invocation{Method: method, Args: args, Matched: setup != nil})

	if setup != nil {
		setup.calls++
	}

	mode := s.mode
	s.mu.Unlock()

	if setup != nil {
		return setup.respond(args)
	}

	if mode == Strict {
		callErr := &CallError{
			Type:       s.typ.String(),
			Method:     method,
			Args:       args,
			Mismatches: mismatches,
		}
		logf(s.t, "automock: %v", callErr)

		panic(callErr)
	}

	logf(s.t, "automock: loose mock of %v returned defaults for %s(%s)", s.typ, displayMethod(method), formatArgs(args))

	return s.defaults(method, sig)
}

// findSetup returns the latest of setups matching the call, or the reasons
// each setup for the method rejected it.
func findSetup(setups []*Setup, method string, args []any) (*Setup, []string) {
	var mismatches []string

	for i := len(setups) - 1; i >= 0; i-- {
		setup := setups[i]
		if setup.method != method {
			continue
		}

		err := matchArgs(args, setup.args)
		if err == nil {
			return setup, nil
		}

		mismatches = append(mismatches, fmt.Sprintf("setup %s(%s): %v", displayMethod(method), formatArgs(setup.args), err))
	}

	return nil, mismatches
}

// snapshotSetups copies the setup list so it can be matched against unlocked.
func (s *state) snapshotSetups() []*Setup {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.setups)
}

// signature returns the function type of method. Function mocks use the empty method name.
func (s *state) signature(method string) (reflect.Type, error) {
	switch s.typ.Kind() {
	case reflect.Func:
		if method != "" {
			return nil, fmt.Errorf("%w: function mock of %v has no method %q", ErrBadSetup, s.typ, method)
		}

		return s.typ, nil
	case reflect.Interface:
		m, ok := s.typ.MethodByName(method)
		if !ok {
			return nil, fmt.Errorf("%w: %v has no method %q", ErrBadSetup, s.typ, method)
		}

		return m.Type, nil
	default:
		return nil, fmt.Errorf("%w: %v is neither an interface nor a function type", ErrUnmockableType, s.typ)
	}
}

func (s *state) verify(include func(*Setup) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failures []string

	for _, setup := range s.setups {
		if !include(setup) {
			continue
		}

		expected := setup.expectedTimes()
		if !expected.Allows(setup.calls) {
			failures = append(failures, fmt.Sprintf(
				"%s(%s): expected %s calls, got %d",
				displayMethod(setup.method), formatArgs(setup.args), expected, setup.calls,
			))
		}
	}

	if len(failures) == 0 {
		return nil
	}

	return fmt.Errorf("%w for %v:\n\t%s", ErrVerification, s.typ, strings.Join(failures, "\n\t"))
}

// verifyCall counts recorded calls matching method and args.
func (s *state) verifyCall(times Times, method string, args []any) error {
	sig, err := s.signature(method)
	if err != nil {
		return err
	}

	expected, err := prepareArgs(sig, args)
	if err != nil {
		return err
	}

	count := 0

	for _, call := range s.Invocations() {
		if call.Method == method && matchArgs(call.Args, expected) == nil {
			count++
		}
	}

	if !times.Allows(count) {
		return fmt.Errorf(
			"%w for %v: %s(%s): expected %s calls, got %d",
			ErrVerification, s.typ, displayMethod(method), formatArgs(expected), times, count,
		)
	}

	return nil
}

// joinVerify runs check on every handle and joins the failures.
func joinVerify(handles []Handle, check func(Handle) error) error {
	var errs []error

	for _, h := range handles {
		if err := check(h); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
