package models

import "encoding/json"

// Optional wraps a field in a partial update so that "not supplied" stays
// distinguishable from "explicitly set" — including explicitly set to the
// zero value. A zero Optional means the field was not supplied and the
// stored value must be left untouched.
type Optional[T any] struct {
	Valid bool
	Value T
}

// Some returns an Optional carrying the given value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Valid: true, Value: v}
}

// UnmarshalJSON marks the field as supplied whenever the key is present in
// the payload. JSON null yields a supplied zero value, which for pointer
// fields means "clear".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Valid = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON emits the wrapped value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
