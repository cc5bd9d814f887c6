// Package greeter depends only on function values and plain settings, so it
// can be auto-mocked without generated code.
package greeter

import "fmt"

// Lookup finds a name by id.
type Lookup func(id int) (string, error)

// Greeter greets people by id.
type Greeter struct {
	primary  Lookup
	fallback Lookup
	notify   func(format string, args ...any)
	greeting string
}

// New builds a Greeter that tries primary, then fallback.
func New(primary, fallback Lookup, notify func(format string, args ...any), greeting string) *Greeter {
	if greeting == "" {
		greeting = "hello"
	}

	return &Greeter{primary: primary, fallback: fallback, notify: notify, greeting: greeting}
}

// Greet greets the person with the given id.
func (g *Greeter) Greet(id int) string {
	name, err := g.primary(id)
	if err != nil {
		g.notify("primary lookup of %d failed: %v", id, err)

		name, err = g.fallback(id)
		if err != nil {
			return g.greeting + ", stranger"
		}
	}

	return fmt.Sprintf("%s, %s", g.greeting, name)
}
