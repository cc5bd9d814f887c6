package core

import (
	"reflect"
	"sync"
)

// Register makes factory the way to build objects for mocks of I, for every
// test in the process. Generated adapters call it from init. The returned
// function restores the previous registration.
func Register[I any](factory func(*Mock[I]) I) (unregister func()) {
	typ := reflect.TypeFor[I]()

	registryMu.Lock()
	defer registryMu.Unlock()

	previous, hadPrevious := registry[typ]
	registry[typ] = typedBuilder(factory)

	return func() {
		registryMu.Lock()
		defer registryMu.Unlock()

		if hadPrevious {
			registry[typ] = previous
		} else {
			delete(registry, typ)
		}
	}
}

// RegisterFor makes factory the way to build objects for mocks of I created
// with t, taking precedence over Register. Subtests have their own scope.
//
// If the TestReporter supports Cleanup (like *testing.T), the registration is
// removed when the test completes.
func RegisterFor[I any](t TestReporter, factory func(*Mock[I]) I) {
	typ := reflect.TypeFor[I]()

	if !scopable(t) {
		t.Helper()
		t.Fatalf("%v: RegisterFor needs a comparable TestReporter, got %T", ErrBadSetup, t)

		return
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	scope, ok := scopedRegistry[t]
	if !ok {
		scope = make(map[reflect.Type]builder)
		scopedRegistry[t] = scope

		if cr, ok := t.(cleanupRegistrar); ok {
			cr.Cleanup(func() {
				registryMu.Lock()
				delete(scopedRegistry, t)
				registryMu.Unlock()
			})
		}
	}

	scope[typ] = typedBuilder(factory)
}

// Mockable reports whether mocks of typ can build an object for reporter t:
// function types always can, interfaces need a registered factory.
func Mockable(t TestReporter, typ reflect.Type) bool {
	return lookupBuilder(t, typ) != nil
}

// builder builds the object of a mock from its state.
type builder func(*state) reflect.Value

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional: generated adapters register from init
	registry = make(map[reflect.Type]builder)
	//nolint:gochecknoglobals // Test-scoped registrations, removed on cleanup
	scopedRegistry = make(map[TestReporter]map[reflect.Type]builder)
	//nolint:gochecknoglobals // Mutex for both registries
	registryMu sync.RWMutex
)

// lookupBuilder finds the builder for typ: test-scoped first, then global,
// then reflect.MakeFunc for function types. Returns nil if there is none.
func lookupBuilder(t TestReporter, typ reflect.Type) builder {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if scopable(t) {
		if b, ok := scopedRegistry[t][typ]; ok {
			return b
		}
	}

	if b, ok := registry[typ]; ok {
		return b
	}

	if typ.Kind() == reflect.Func {
		return funcBuilder
	}

	return nil
}

// scopable reports whether t can key the test-scoped registry. Reporters of
// non-comparable types (a struct value holding a slice, say) only see global
// registrations.
func scopable(t TestReporter) bool {
	return t != nil && reflect.TypeOf(t).Comparable()
}

// typedBuilder adapts a typed factory to the untyped builder the registry stores.
func typedBuilder[I any](factory func(*Mock[I]) I) builder {
	return func(s *state) reflect.Value {
		object := factory(&Mock[I]{s: s})

		return reflect.ValueOf(&object).Elem()
	}
}
