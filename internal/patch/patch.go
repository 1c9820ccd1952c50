// Package patch provides optional fields for partial updates.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNull is returned when a patch field is explicitly set to null.
var ErrNull = errors.New("null is not a valid value")

// Field is either unset or set to a value. A field that is absent from a
// JSON document stays unset; JSON null is rejected.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Get returns the value and whether it was set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// OrElse returns the value when set, otherwise fallback.
func (f Field[T]) OrElse(fallback T) T {
	if f.set {
		return f.value
	}
	return fallback
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNull
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
