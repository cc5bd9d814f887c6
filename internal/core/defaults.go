package core

import (
	"fmt"
	"reflect"
)

// defaults builds the results of a call nothing configured, following the
// mock's default value policy.
func (s *state) defaults(method string, sig reflect.Type) []any {
	policy := s.DefaultValue()
	results := make([]any, sig.NumOut())

	for i := range results {
		out := sig.Out(i)

		if policy == DefaultMock && Mockable(s.t, out) {
			child := s.child(method, i, out)

			object, err := child.ObjectValue()
			if err == nil {
				results[i] = object.Interface()

				continue
			}
		}

		results[i] = emptyValue(out).Interface()
	}

	return results
}

// child returns the mock answering the index-th result of method, creating a
// loose one on first use. Repeated calls get the same child.
func (s *state) child(method string, index int, typ reflect.Type) *state {
	key := childKey(method, index)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.children[key]; ok {
		return existing
	}

	created := newState(s.t, typ, Loose, s.defaultValue)
	s.children[key] = created

	return created
}

// childOf returns the first child created for method, or nil.
func (s *state) childOf(method string, typ reflect.Type) *state {
	sig, err := s.signature(method)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range sig.NumOut() {
		child, ok := s.children[childKey(method, i)]
		if ok && (typ == nil || child.typ == typ) {
			return child
		}
	}

	return nil
}

func childKey(method string, index int) string {
	return fmt.Sprintf("%s/%d", method, index)
}

// emptyValue is the DefaultEmpty value for typ: the zero value, except that
// slices and maps are empty rather than nil.
func emptyValue(typ reflect.Type) reflect.Value {
	switch typ.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(typ, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(typ)
	default:
		return reflect.Zero(typ)
	}
}
