package runtime

import "fmt"

// DefaultCapacity is the number of distinct names an environment holds
// unless configured otherwise.
const DefaultCapacity = 100

// Environment is the flat binding table shared by every statement of a
// run. Names are never removed individually.
type Environment struct {
	values   map[string]int64
	order    []string // names in first-assignment order
	capacity int
}

// NewEnvironment creates an empty environment holding at most capacity
// names. A capacity below 1 selects DefaultCapacity.
func NewEnvironment(capacity int) *Environment {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Environment{
		values:   make(map[string]int64),
		capacity: capacity,
	}
}

// Get returns the last value assigned to name.
func (e *Environment) Get(name string) (int64, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Set assigns value to name, adding the name if needed. Adding a name to
// a full environment fails with ErrCapacityExceeded and changes nothing.
func (e *Environment) Set(name string, value int64) error {
	if _, exists := e.values[name]; exists {
		e.values[name] = value
		return nil
	}
	if len(e.order) >= e.capacity {
		return fmt.Errorf("%w: cannot add '%s', limit is %d variables", ErrCapacityExceeded, name, e.capacity)
	}
	e.values[name] = value
	e.order = append(e.order, name)
	return nil
}

// Len returns the number of bound names.
func (e *Environment) Len() int { return len(e.order) }

// Capacity returns the maximum number of names.
func (e *Environment) Capacity() int { return e.capacity }

// Names returns the bound names in the order they were first assigned.
func (e *Environment) Names() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// Clear removes every binding.
func (e *Environment) Clear() {
	e.values = make(map[string]int64)
	e.order = nil
}
