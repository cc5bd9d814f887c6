package core

import (
	"reflect"
)

// funcBuilder builds the object of a function mock. Function types need no
// generated adapter: reflect.MakeFunc forwards every call to the mock.
func funcBuilder(s *state) reflect.Value {
	sig := s.typ

	forward := func(in []reflect.Value) []reflect.Value {
		results := s.called("", flattenArgs(sig, in))

		out := make([]reflect.Value, sig.NumOut())
		for i := range out {
			out[i] = typedValue(sig.Out(i), results[i])
		}

		return out
	}

	return reflect.MakeFunc(sig, forward)
}

// flattenArgs turns reflect call arguments into the []any a mock records,
// spreading a variadic tail into individual arguments.
func flattenArgs(sig reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))

	for i, arg := range in {
		if sig.IsVariadic() && i == len(in)-1 {
			for j := range arg.Len() {
				args = append(args, arg.Index(j).Interface())
			}

			continue
		}

		args = append(args, arg.Interface())
	}

	return args
}

// typedValue wraps value in a reflect.Value of exactly typ. MakeFunc rejects
// results whose dynamic type differs from the declared one.
func typedValue(typ reflect.Type, value any) reflect.Value {
	result := reflect.New(typ).Elem()
	if value != nil {
		result.Set(reflect.ValueOf(value))
	}

	return result
}
