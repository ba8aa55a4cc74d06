package console

import (
	"fmt"
	"sort"
	"strconv"
)

// IntRange bounds an integer variable.
type IntRange struct {
	Min     int
	Default int
	Max     int
}

type variable struct {
	limits   IntRange
	value    int
	onChange func(int)
}

// Variables is a set of named integer settings, each held within its
// range.
type Variables struct {
	variables map[string]*variable
}

func NewVariables() *Variables {
	return &Variables{variables: make(map[string]*variable)}
}

// Define adds a variable at its default value. onChange, if set, is called
// whenever the value changes.
func (v *Variables) Define(name string, limits IntRange, onChange func(int)) {
	v.variables[name] = &variable{
		limits:   limits,
		value:    limits.Default,
		onChange: onChange,
	}
}

func (v *Variables) Get(name string) (int, bool) {
	variable, ok := v.variables[name]
	if !ok {
		return 0, false
	}
	return variable.value, true
}

func (v *Variables) Set(name string, value int) error {
	variable, ok := v.variables[name]
	if !ok {
		return fmt.Errorf("unknown variable %s", name)
	}

	limits := variable.limits
	if value < limits.Min || value > limits.Max {
		return fmt.Errorf("%s must be between %d and %d", name, limits.Min, limits.Max)
	}

	if variable.value == value {
		return nil
	}
	variable.value = value
	if variable.onChange != nil {
		variable.onChange(value)
	}
	return nil
}

// SetString accepts a number or on/off.
func (v *Variables) SetString(name, value string) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		b, boolErr := parseBool(value)
		if boolErr != nil {
			return fmt.Errorf("%s takes a whole number, got %q", name, value)
		}
		parsed = 0
		if b {
			parsed = 1
		}
	}
	return v.Set(name, parsed)
}

func (v *Variables) Names() []string {
	names := make([]string, 0, len(v.variables))
	for name := range v.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *Variables) Describe(name string) string {
	variable, ok := v.variables[name]
	if !ok {
		return fmt.Sprintf("%s: unknown variable", name)
	}
	return fmt.Sprintf(
		"%s = %d (%d..%d)",
		name,
		variable.value,
		variable.limits.Min,
		variable.limits.Max,
	)
}
