// Package tortilla is the runtime half of the tortilla overload-dispatch
// generator. The wrapgen package turns a reflected class into routine
// specifications; this package executes them: a [Routine] is the directly
// callable form of one generated dispatch routine, selecting the matching
// member of an overload set from the runtime types and count of its
// arguments.
//
// Emitted source also links against this package, using [Match] and
// [MatchAll] as its type guards and [NewOverloadError] as its failure
// result.
package tortilla

import (
	"reflect"

	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// Routine is a generated multi-clause dispatch routine. It selects and
// invokes the underlying class member matching the supplied arguments, or
// returns an *OverloadResolutionError when none does.
type Routine func(args ...any) (any, error)

// RoutineSet maps routine identifiers to routines for one wrapped class.
type RoutineSet map[string]Routine

// CoerceFunc converts a value toward a target parameter type before type
// guards run and again before invocation. A nil CoerceFunc is identity.
// Implementations must be side-effect-free; the same hook may be applied to
// the same value more than once.
type CoerceFunc func(v any, target reflect.Type) any

// NumericCoercion is the default coercion hook enabled by --coerce. It
// converts numeric values across numeric families when the target parameter
// is numeric, so an int argument can satisfy a float64 parameter and vice
// versa. Conversions follow Go semantics; float to integer truncates.
func NumericCoercion(v any, target reflect.Type) any {
	if v == nil || target == nil {
		return v
	}
	if ir.NumericFamily(target) == ir.FamilyNone {
		return v
	}
	rv := reflect.ValueOf(v)
	if ir.NumericFamily(rv.Type()) == ir.FamilyNone {
		return v
	}
	if !rv.Type().ConvertibleTo(target) {
		return v
	}
	return rv.Convert(target).Interface()
}

// Match is the type guard used by emitted dispatch source. It applies the
// coercion hook, then reports whether the value is an instance of T's boxed
// form, converting within a numeric family as needed. An untyped nil matches
// only nilable T.
func Match[T any](c CoerceFunc, v any) (T, bool) {
	var zero T
	target := reflect.TypeOf(&zero).Elem()
	if c != nil {
		v = c(v, target)
	}
	if v == nil {
		return zero, ir.NilableKind(target.Kind())
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	rt := reflect.TypeOf(v)
	if f := ir.NumericFamily(rt); f != ir.FamilyNone && f == ir.NumericFamily(target) {
		return reflect.ValueOf(v).Convert(target).Interface().(T), true
	}
	return zero, false
}

// MatchAll applies Match to every element of a residual argument list. It is
// the guard emitted for the repeating tail of a variadic member.
func MatchAll[T any](c CoerceFunc, vs []any) ([]T, bool) {
	out := make([]T, len(vs))
	for i, v := range vs {
		tv, ok := Match[T](c, v)
		if !ok {
			return nil, false
		}
		out[i] = tv
	}
	return out, true
}
