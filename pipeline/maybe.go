package pipeline

import "strconv"

// Maybe holds a value that may be absent. The zero value is absent. The
// value can only be read through Get, so absence is never mistaken for zero.
type Maybe[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Maybe[T] { return Maybe[T]{v: v, ok: true} }

func None[T any]() Maybe[T] { return Maybe[T]{} }

func (m Maybe[T]) Get() (T, bool) { return m.v, m.ok }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
