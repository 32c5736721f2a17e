package ui

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ForceKey is the State field used to force an update. Setting it to a value
// different from the committed one makes the next update render even if
// nothing else changed. It never survives a commit.
const ForceKey = "__force__"

// Props holds the properties a component receives from its parent.
type Props map[string]any

// State holds the internal state of a component.
type State map[string]any

// Get returns the value stored under key, nil if there is none.
func (p Props) Get(key string) any { return p[key] }

// String returns the value stored under key if it is a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Get returns the value stored under key, nil if there is none.
func (s State) Get(key string) any { return s[key] }

// Clone returns a shallow copy of p. Cloning nil yields nil.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return Props(clone(p))
}

// Clone returns a shallow copy of s. Cloning nil yields nil.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return State(clone(s))
}

// MergeProps returns a new Props holding the keys of every argument, later
// arguments overriding earlier ones.
func MergeProps(maps ...Props) Props {
	m := make(Props)
	for _, p := range maps {
		for k, v := range p {
			m[k] = v
		}
	}
	return m
}

// MergeState returns a new State holding the keys of every argument, later
// arguments overriding earlier ones.
func MergeState(maps ...State) State {
	m := make(State)
	for _, s := range maps {
		for k, v := range s {
			m[k] = v
		}
	}
	return m
}

func clone(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

var equalOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal reports whether a and b are deeply equal. Nil and empty collections
// are equal. Functions are never equal unless both are nil.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, equalOptions...)
}
