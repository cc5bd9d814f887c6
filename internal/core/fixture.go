package core

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Fixture holds a target's selected constructor and the mocks created for its
// parameters.
type Fixture[T any] struct {
	t      TestReporter
	ctor   reflect.Value
	params []*parameter

	mu      sync.Mutex
	facades map[int]any // typed *Mock[I] views, by parameter position
}

// Option configures Build.
type Option func(*buildConfig)

// Parameter describes one parameter of a fixture's constructor.
type Parameter struct {
	Index int
	Type  reflect.Type
	// Mock is nil when the parameter receives a plain value.
	Mock Handle
}

// Build selects the constructor with the most parameters from ctors (the
// first one on ties) and creates a mock for every interface or function
// parameter. Other parameters receive the value given with WithValue, or
// their zero value.
//
// Every ctor must be a non-variadic function returning a value assignable to
// T, optionally followed by an error.
func Build[T any](t TestReporter, ctors []any, opts ...Option) (*Fixture[T], error) {
	cfg := &buildConfig{
		mode:      Loose,
		alternate: make(map[reflect.Type]bool),
		values:    make(map[reflect.Type]reflect.Value),
		factories: make(map[reflect.Type]builder),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.errs) > 0 {
		return nil, errors.Join(cfg.errs...)
	}

	ctor, err := selectConstructor[T](ctors)
	if err != nil {
		return nil, err
	}

	ctorType := ctor.Type()
	params := make([]*parameter, ctorType.NumIn())

	for i := range params {
		typ := ctorType.In(i)
		param := &parameter{index: i, typ: typ}
		params[i] = param

		if value, ok := cfg.values[typ]; ok {
			param.value = value

			continue
		}

		if typ.Kind() != reflect.Interface && typ.Kind() != reflect.Func {
			param.value = reflect.Zero(typ)

			continue
		}

		mode := cfg.mode
		if cfg.alternate[typ] {
			mode = mode.Inverse()
		}

		param.mock = newState(t, typ, mode, cfg.defaultValue)
		param.mock.factory = cfg.factories[typ]

		if param.mock.factory == nil && !Mockable(t, typ) {
			return nil, fmt.Errorf(
				"%w: parameter %d of %v: no mock factory registered for %v (generate one with automockgen, or pass WithFactory or WithValue)",
				ErrUnmockableType, i, ctorType, typ,
			)
		}
	}

	return &Fixture[T]{
		t:       t,
		ctor:    ctor,
		params:  params,
		facades: make(map[int]any),
	}, nil
}

// LookupMock returns the mock created for the parameter of type I. It fails
// with ErrNoMatchingMock if no parameter has type I, and with
// ErrAmbiguousMock if several do.
func LookupMock[I, T any](f *Fixture[T]) (*Mock[I], error) {
	typ := reflect.TypeFor[I]()
	positions := f.positionsOf(typ)

	switch len(positions) {
	case 0:
		return nil, fmt.Errorf("%w: %v is not a mocked parameter of %v", ErrNoMatchingMock, typ, f.ctor.Type())
	case 1:
		return mockAt[I](f, positions[0]), nil
	default:
		return nil, fmt.Errorf(
			"%w: %v is parameters %v of %v; select one with MockAt",
			ErrAmbiguousMock, typ, positions, f.ctor.Type(),
		)
	}
}

// MockAt returns the mock for the n-th (0-based) parameter of type I.
func MockAt[I, T any](f *Fixture[T], n int) *Mock[I] {
	typ := reflect.TypeFor[I]()
	positions := f.positionsOf(typ)

	if n < 0 || n >= len(positions) {
		f.t.Helper()
		f.t.Fatalf("%v: %v has %d mocked parameter(s) of type %v, asked for #%d",
			ErrNoMatchingMock, f.ctor.Type(), len(positions), typ, n)

		return nil
	}

	return mockAt[I](f, positions[n])
}

// MockOf returns the mock created for the parameter of type I, failing the
// test if there is no such parameter or more than one.
func MockOf[I, T any](f *Fixture[T]) *Mock[I] {
	mock, err := LookupMock[I](f)
	if err != nil {
		f.t.Helper()
		f.t.Fatalf("%v", err)

		return nil
	}

	return mock
}

// WithAlternate gives mocks of the listed types the inverse of the default
// mode. Types that match no parameter are ignored.
func WithAlternate(types ...reflect.Type) Option {
	return func(cfg *buildConfig) {
		for _, typ := range types {
			if typ != nil {
				cfg.alternate[typ] = true
			}
		}
	}
}

// WithAlternateFor is WithAlternate for a single type given as a type parameter.
func WithAlternateFor[D any]() Option {
	return WithAlternate(reflect.TypeFor[D]())
}

// WithDefaultValue sets the default value policy of every mock.
func WithDefaultValue(policy DefaultValue) Option {
	return func(cfg *buildConfig) {
		cfg.defaultValue = policy
	}
}

// WithFactory builds mocks of I with factory, ignoring the registry.
func WithFactory[I any](factory func(*Mock[I]) I) Option {
	return func(cfg *buildConfig) {
		cfg.factories[reflect.TypeFor[I]()] = typedBuilder(factory)
	}
}

// WithMode sets the default mode of every mock.
func WithMode(mode Mode) Option {
	return func(cfg *buildConfig) {
		cfg.mode = mode
	}
}

// WithValue passes value to every parameter of exactly its dynamic type
// instead of a mock or zero value.
func WithValue(value any) Option {
	return func(cfg *buildConfig) {
		if value == nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("%w: WithValue(nil) has no type; use WithValueFor", ErrBadSetup))

			return
		}

		cfg.values[reflect.TypeOf(value)] = reflect.ValueOf(value)
	}
}

// WithValueFor passes value to every parameter of type P instead of a mock.
// Use it for interface parameters that should get a real implementation.
func WithValueFor[P any](value P) Option {
	return func(cfg *buildConfig) {
		cfg.values[reflect.TypeFor[P]()] = reflect.ValueOf(&value).Elem()
	}
}

// Constructor returns the signature of the selected constructor.
func (f *Fixture[T]) Constructor() reflect.Type {
	return f.ctor.Type()
}

// Parameters describes the selected constructor's parameters in order.
func (f *Fixture[T]) Parameters() []Parameter {
	described := make([]Parameter, len(f.params))

	for i, param := range f.params {
		described[i] = Parameter{Index: param.index, Type: param.typ}
		if param.mock != nil {
			described[i].Mock = param.mock
		}
	}

	return described
}

// Target constructs a new instance from the mocks' objects. Each call invokes
// the constructor again; the mocks, and their setups, are shared by every
// instance. A constructor error fails the test.
func (f *Fixture[T]) Target() T {
	target, err := f.TargetE()
	if err != nil {
		f.t.Helper()
		f.t.Fatalf("%v", err)
	}

	return target
}

// TargetE is Target returning the constructor's error instead of failing the test.
func (f *Fixture[T]) TargetE() (T, error) {
	var target T

	args := make([]reflect.Value, len(f.params))

	for i, param := range f.params {
		if param.mock == nil {
			args[i] = param.value

			continue
		}

		object, err := param.mock.ObjectValue()
		if err != nil {
			return target, fmt.Errorf("parameter %d of %v: %w", i, f.ctor.Type(), err)
		}

		args[i] = object
	}

	out := f.ctor.Call(args)

	if len(out) == 2 && !out[1].IsNil() {
		err, _ := out[1].Interface().(error)

		return target, fmt.Errorf("constructor %v: %w", f.ctor.Type(), err)
	}

	reflect.ValueOf(&target).Elem().Set(out[0])

	return target, nil
}

// Verify checks the Verifiable setups of every mock and fails the test with
// all unmet expectations.
func (f *Fixture[T]) Verify() {
	if err := joinVerify(f.handles(), Handle.Verify); err != nil {
		f.t.Helper()
		f.t.Fatalf("%v", err)
	}
}

// VerifyAll checks every setup of every mock and fails the test with all
// unmet expectations.
func (f *Fixture[T]) VerifyAll() {
	if err := joinVerify(f.handles(), Handle.VerifyAll); err != nil {
		f.t.Helper()
		f.t.Fatalf("%v", err)
	}
}

func (f *Fixture[T]) handles() []Handle {
	handles := make([]Handle, 0, len(f.params))

	for _, param := range f.params {
		if param.mock != nil {
			handles = append(handles, param.mock)
		}
	}

	return handles
}

func (f *Fixture[T]) positionsOf(typ reflect.Type) []int {
	var positions []int

	for _, param := range f.params {
		if param.mock != nil && param.typ == typ {
			positions = append(positions, param.index)
		}
	}

	return positions
}

type buildConfig struct {
	mode         Mode
	alternate    map[reflect.Type]bool
	defaultValue DefaultValue
	values       map[reflect.Type]reflect.Value
	factories    map[reflect.Type]builder
	errs         []error
}

type parameter struct {
	index int
	typ   reflect.Type
	mock  *state        // nil for plain values
	value reflect.Value // used when mock is nil
}

// mockAt returns the typed view of the mock at position, creating it once so
// repeated lookups return the same *Mock[I].
func mockAt[I, T any](f *Fixture[T], position int) *Mock[I] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if facade, ok := f.facades[position].(*Mock[I]); ok {
		return facade
	}

	facade := &Mock[I]{s: f.params[position].mock}
	f.facades[position] = facade

	return facade
}

// selectConstructor validates ctors and returns the one with the most
// parameters, the first one on ties.
func selectConstructor[T any](ctors []any) (reflect.Value, error) {
	if len(ctors) == 0 {
		return reflect.Value{}, fmt.Errorf("%w: no constructor given for %v", ErrNoConstructor, reflect.TypeFor[T]())
	}

	var selected reflect.Value

	for i, ctor := range ctors {
		value := reflect.ValueOf(ctor)

		err := checkConstructor[T](value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: constructor %d (%T): %w", ErrInvalidConstructor, i, ctor, err)
		}

		if !selected.IsValid() || value.Type().NumIn() > selected.Type().NumIn() {
			selected = value
		}
	}

	return selected, nil
}

func checkConstructor[T any](value reflect.Value) error {
	target := reflect.TypeFor[T]()

	if value.Kind() != reflect.Func {
		//nolint:err113 // validation error with dynamic context
		return errors.New("not a function")
	}

	if value.IsNil() {
		//nolint:err113 // validation error with dynamic context
		return errors.New("nil function")
	}

	typ := value.Type()

	if typ.IsVariadic() {
		//nolint:err113 // validation error with dynamic context
		return errors.New("variadic constructors are not supported")
	}

	switch {
	case typ.NumOut() == 1:
	case typ.NumOut() == 2 && typ.Out(1) == reflect.TypeFor[error]():
	default:
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("must return %v or (%v, error)", target, target)
	}

	if !typ.Out(0).AssignableTo(target) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("returns %v, not assignable to %v", typ.Out(0), target)
	}

	return nil
}
