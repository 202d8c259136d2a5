package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/zntune/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"zoh":   func() dynamo.Integrator { return NewZOH() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
	"heun":  func() dynamo.Integrator { return NewHeun() },
	"euler": func() dynamo.Integrator { return NewEuler() },
}

// New returns a fresh integrator. Integrators carry scratch state, so
// callers must not share the returned value between runs.
func New(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
