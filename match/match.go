// Package match provides argument matchers for automock's On and VerifyCall.
// Gomega matchers work in the same positions:
//
//	mock.On("Store", HavePrefix("user/"), match.BeAny).Return(nil)
package match

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeOfType matches values whose dynamic type is T, or implements T when T is
// an interface. nil never matches.
func BeOfType[T any]() Matcher {
	return typeMatcher{typ: reflect.TypeFor[T]()}
}

// Capture matches any value assignable to T and stores the most recent one
// in *dest. Use it to grab arguments such as callbacks:
//
//	var onDone func()
//	mock.On("Start", Capture(&onDone))
func Capture[T any](dest *T) Matcher {
	return &captureMatcher[T]{dest: dest}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	mock.On("Add", Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}), BeAny)
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type captureMatcher[T any] struct {
	mu   sync.Mutex
	dest *T
}

func (m *captureMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("cannot capture %T as %v", actual, reflect.TypeFor[T]())
}

func (m *captureMatcher[T]) Match(actual any) (bool, error) {
	val, ok := asType[T](actual)
	if !ok {
		return false, nil
	}

	m.mu.Lock()
	*m.dest = val
	m.mu.Unlock()

	return true, nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error

	mu      sync.Mutex
	lastErr error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	m.mu.Lock()
	lastErr := m.lastErr
	m.mu.Unlock()

	if lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := asType[T](actual)
	if !ok {
		return false, fmt.Errorf("%w: expected %v, got %T", errTypeMismatch, reflect.TypeFor[T](), actual)
	}

	err := m.predicate(val)

	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	return err == nil, nil
}

type typeMatcher struct {
	typ reflect.Type
}

func (m typeMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %v, got %T", m.typ, actual)
}

func (m typeMatcher) Match(actual any) (bool, error) {
	if actual == nil {
		return false, nil
	}

	return reflect.TypeOf(actual).AssignableTo(m.typ), nil
}

// asType converts actual to T. A nil actual becomes T's zero value when T
// can hold nil.
func asType[T any](actual any) (T, bool) {
	if val, ok := actual.(T); ok {
		return val, true
	}

	var zero T

	if actual == nil {
		switch reflect.TypeFor[T]().Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return zero, true
		default:
			return zero, false
		}
	}

	return zero, false
}
