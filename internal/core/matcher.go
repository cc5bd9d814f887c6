package core

import (
	"fmt"
	"reflect"

	"go.uber.org/mock/gomock"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method; a
// gomock.Matcher uses Matches. Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(gomock.Matcher); ok {
		if matcher.Matches(actual) {
			return true, ""
		}

		return false, fmt.Sprintf("expected %s, got %#v", matcher.String(), actual)
	}

	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if valuesEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}

// matchArgs checks a call's flattened arguments against a setup's expectations.
// It returns nil for a match, or an error describing the first mismatch.
func matchArgs(actual, expected []any) error {
	if len(actual) != len(expected) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}

	for i, exp := range expected {
		ok, msg := MatchValue(actual[i], exp)
		if !ok {
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", i, msg)
		}
	}

	return nil
}

// isMatcher reports whether expected is compared by a matcher rather than by value.
func isMatcher(expected any) bool {
	switch expected.(type) {
	case Matcher, gomock.Matcher:
		return true
	default:
		return false
	}
}

// valuesEqual checks if two values are equal using reflect.DeepEqual.
// An untyped nil expectation also matches typed nil pointers, maps, slices,
// funcs, chans and interfaces.
func valuesEqual(actual, expected any) bool {
	if expected == nil && actual != nil {
		return isNilValue(reflect.ValueOf(actual))
	}

	return reflect.DeepEqual(actual, expected)
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
