// Package optional provides a value type that distinguishes "unset" from the
// zero value of its type.
package optional

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Value holds either a T or nothing.
type Value[T any] struct {
	value T
	set   bool
}

// Float is an optional float64, the type of every numeric project field.
type Float = Value[float64]

// String is an optional string.
type String = Value[string]

// Some returns a set Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None returns an unset Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns an unset Value for nil and a set Value otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsSet reports whether the value holds something.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Get returns the held value and whether it is set.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// Or returns the held value, or def when unset.
func (v Value[T]) Or(def T) T {
	if !v.set {
		return def
	}
	return v.value
}

// Ptr returns a pointer to a copy of the held value, or nil when unset.
func (v Value[T]) Ptr() *T {
	if !v.set {
		return nil
	}
	out := v.value
	return &out
}

// IsZero reports whether the value is unset. It lets yaml omitempty skip
// unset fields while keeping a set zero.
func (v Value[T]) IsZero() bool {
	return !v.set
}

// String implements fmt.Stringer.
func (v Value[T]) String() string {
	if !v.set {
		return "<unset>"
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON writes null for unset values and for non-finite floats.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set || !finite(v.value) {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON treats null as unset.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = None[T]()
		return nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*v = Some(out)
	return nil
}

// MarshalYAML writes null for unset values and for non-finite floats.
func (v Value[T]) MarshalYAML() (interface{}, error) {
	if !v.set || !finite(v.value) {
		return nil, nil
	}
	return v.value, nil
}

// UnmarshalYAML treats a null node as unset.
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*v = None[T]()
		return nil
	}
	var out T
	if err := node.Decode(&out); err != nil {
		return err
	}
	*v = Some(out)
	return nil
}

func finite(value interface{}) bool {
	f, ok := value.(float64)
	if !ok {
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
