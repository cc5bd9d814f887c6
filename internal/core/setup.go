package core

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
)

// Setup configures how a mock answers calls matching a method and arguments.
// Setup methods return the Setup for chaining.
type Setup struct {
	state  *state
	method string
	sig    reflect.Type
	args   []any

	returns    []any
	hasReturns bool
	returnFunc func(args []any) []any
	panics     bool
	panicValue any
	run        func(args []any)
	verifiable bool
	times      *Times
	calls      int
}

// Calls returns how many calls this setup has answered.
func (s *Setup) Calls() int {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	return s.calls
}

// Panic makes matching calls panic with value.
func (s *Setup) Panic(value any) *Setup {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.panics = true
	s.panicValue = value

	return s
}

// Return sets the values matching calls return. The values must match the
// method's results in number and type; untyped numeric constants are converted.
func (s *Setup) Return(values ...any) *Setup {
	converted, err := prepareResults(s.sig, values)
	if err != nil {
		s.state.t.Helper()
		s.state.t.Fatalf("%s: %v", s.describe(), err)

		return s
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.returns = converted
	s.hasReturns = true
	s.returnFunc = nil

	return s
}

// ReturnFunc computes the results of each matching call from its arguments.
func (s *Setup) ReturnFunc(fn func(args []any) []any) *Setup {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.returnFunc = fn
	s.hasReturns = false

	return s
}

// Run registers a callback invoked with the arguments of each matching call,
// before the call returns or panics.
func (s *Setup) Run(fn func(args []any)) *Setup {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.run = fn

	return s
}

// Times sets the number of calls Verify and VerifyAll expect. Without it,
// at least one call is expected.
func (s *Setup) Times(times Times) *Setup {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.times = &times

	return s
}

// Verifiable marks the setup for checking by Verify.
func (s *Setup) Verifiable() *Setup {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.verifiable = true

	return s
}

func (s *Setup) describe() string {
	return fmt.Sprintf("setup %s.%s(%s)", s.state.typ, displayMethod(s.method), formatArgs(s.args))
}

// expectedTimes must be called with the state lock held.
func (s *Setup) expectedTimes() Times {
	if s.times != nil {
		return *s.times
	}

	return AtLeastOnce()
}

// respond produces the results of a call this setup matched.
func (s *Setup) respond(args []any) []any {
	s.state.mu.Lock()
	run := s.run
	panics, panicValue := s.panics, s.panicValue
	returnFunc := s.returnFunc
	returns, hasReturns := s.returns, s.hasReturns
	s.state.mu.Unlock()

	if run != nil {
		run(args)
	}

	if panics {
		panic(panicValue)
	}

	if returnFunc != nil {
		results, err := prepareResults(s.sig, returnFunc(args))
		if err != nil {
			panic(fmt.Errorf("%s: ReturnFunc: %w", s.describe(), err))
		}

		return results
	}

	if hasReturns {
		results := make([]any, len(returns))
		copy(results, returns)

		return results
	}

	return s.state.defaults(s.method, s.sig)
}

// prepareArgs checks expected arguments against a signature and converts
// plain values to the parameter types. Matchers pass through unchanged.
// Variadic arguments are expected flattened.
func prepareArgs(sig reflect.Type, args []any) ([]any, error) {
	numIn := sig.NumIn()

	if sig.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("%w: expected at least %d args, got %d", ErrBadSetup, numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("%w: expected %d args, got %d", ErrBadSetup, numIn, len(args))
	}

	prepared := make([]any, len(args))

	for i, arg := range args {
		if isMatcher(arg) {
			prepared[i] = arg

			continue
		}

		converted, err := coerce(arg, paramType(sig, i))
		if err != nil {
			return nil, fmt.Errorf("%w: arg %d: %w", ErrBadSetup, i, err)
		}

		prepared[i] = converted
	}

	return prepared, nil
}

// prepareResults checks result values against a signature and converts them.
func prepareResults(sig reflect.Type, values []any) ([]any, error) {
	if len(values) != sig.NumOut() {
		return nil, fmt.Errorf("%w: expected %d return values, got %d", ErrBadSetup, sig.NumOut(), len(values))
	}

	prepared := make([]any, len(values))

	for i, value := range values {
		converted, err := coerce(value, sig.Out(i))
		if err != nil {
			return nil, fmt.Errorf("%w: return value %d: %w", ErrBadSetup, i, err)
		}

		prepared[i] = converted
	}

	return prepared, nil
}

// paramType returns the type of the i-th flattened argument.
func paramType(sig reflect.Type, i int) reflect.Type {
	last := sig.NumIn() - 1
	if sig.IsVariadic() && i >= last {
		return sig.In(last).Elem()
	}

	return sig.In(i)
}

// coerce converts value to typ when Go would accept it as a typed constant:
// assignable values pass through, numeric and string kinds are converted.
func coerce(value any, typ reflect.Type) (any, error) {
	if value == nil {
		if nillable(typ) {
			return nil, nil
		}

		//nolint:err113 // validation error with dynamic context
		return nil, fmt.Errorf("nil is not a valid %v", typ)
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(typ) {
		return value, nil
	}

	if sameBasicFamily(val.Kind(), typ.Kind()) && val.Type().ConvertibleTo(typ) {
		converted := val.Convert(typ)
		if !lossless(val, converted) {
			//nolint:err113 // validation error with dynamic context
			return nil, fmt.Errorf("%T(%v) does not fit in %v", value, value, typ)
		}

		return converted.Interface(), nil
	}

	//nolint:err113 // validation error with dynamic context
	return nil, fmt.Errorf("%T is not assignable to %v", value, typ)
}

func isNumeric(kind reflect.Kind) bool {
	return kind >= reflect.Int && kind <= reflect.Complex128
}

// lossless reports whether converted holds the value of original. Integer
// targets must hold it exactly, with the same sign; float targets may round,
// as Go rounds float constants, but must not overflow to infinity.
func lossless(original, converted reflect.Value) bool {
	switch converted.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsInf(converted.Float(), 0) || isInf(original)
	case reflect.Complex64, reflect.Complex128:
		return true
	}

	if sign(original) != sign(converted) {
		return false
	}

	return reflect.DeepEqual(converted.Convert(original.Type()).Interface(), original.Interface())
}

func isInf(v reflect.Value) bool {
	return v.CanFloat() && math.IsInf(v.Float(), 0)
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

// sign is -1, 0 or 1 for real numbers. Complex values report 0.
func sign(v reflect.Value) int {
	switch {
	case v.CanInt():
		return cmp.Compare(v.Int(), 0)
	case v.CanUint():
		return cmp.Compare(v.Uint(), 0)
	case v.CanFloat():
		return cmp.Compare(v.Float(), 0)
	default:
		return 0
	}
}

func sameBasicFamily(from, to reflect.Kind) bool {
	if isNumeric(from) && isNumeric(to) {
		return true
	}

	return from == reflect.String && to == reflect.String
}
